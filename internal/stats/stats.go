// Package stats summarises the JSON-lines event logs of a project.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/claude-hooks/internal/backup"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/timing"
)

const logExtension = ".jsonl"

// Format selects how a report is rendered.
type Format string

// Output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q (want table, json or yaml)", s)
	}
}

// FileStats describes one log file.
type FileStats struct {
	Name      string         `json:"name" yaml:"name"`
	Records   int            `json:"records" yaml:"records"`
	Invalid   int            `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	SizeBytes int64          `json:"size_bytes" yaml:"size_bytes"`
	First     string         `json:"first,omitempty" yaml:"first,omitempty"`
	Last      string         `json:"last,omitempty" yaml:"last,omitempty"`
	Events    map[string]int `json:"events,omitempty" yaml:"events,omitempty"`
}

// Report is the summary of a logs directory.
type Report struct {
	LogsDir     string      `json:"logs_dir" yaml:"logs_dir"`
	Files       []FileStats `json:"files" yaml:"files"`
	Backups     int         `json:"backups" yaml:"backups"`
	BackupBytes int64       `json:"backup_bytes" yaml:"backup_bytes"`
}

// Collect reads every log file under paths.LogsDir. A missing directory
// yields an empty report.
func Collect(paths eventlog.Paths) (*Report, error) {
	report := &Report{LogsDir: paths.LogsDir, Files: []FileStats{}}

	entries, err := os.ReadDir(paths.LogsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to read logs directory")
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != logExtension {
			continue
		}

		st, err := collectFile(filepath.Join(paths.LogsDir, e.Name()))
		if err != nil {
			return nil, err
		}

		report.Files = append(report.Files, st)
	}

	slices.SortFunc(report.Files, func(a, b FileStats) int {
		return strings.Compare(a.Name, b.Name)
	})

	backups, err := backup.List(paths.Backups)
	if err != nil {
		return nil, err
	}

	report.Backups = len(backups)

	for _, b := range backups {
		report.BackupBytes += b.Size
	}

	return report, nil
}

func collectFile(path string) (FileStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStats{}, errors.Wrap(err, "failed to stat log file")
	}

	st := FileStats{
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
		Events:    map[string]int{},
	}

	invalid, err := eventlog.Scan(path, func(rec eventlog.Record) bool {
		st.Records++

		if ev := rec.StringField(eventlog.KeyEvent); ev != "" {
			st.Events[ev]++
		}

		if ts := rec.StringField(eventlog.KeyTimestamp); ts != "" {
			if st.First == "" {
				st.First = ts
			}

			st.Last = ts
		}

		return true
	})
	if err != nil {
		return FileStats{}, err
	}

	st.Invalid = invalid

	if len(st.Events) == 0 {
		st.Events = nil
	}

	return st, nil
}

// Write renders the report. Table timestamps are shown relative to now.
func (r *Report) Write(w io.Writer, format Format, now time.Time) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(r), "failed to encode report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		return errors.Wrap(enc.Encode(r), "failed to encode report")
	default:
		return r.writeTable(w, now)
	}
}

func (r *Report) writeTable(w io.Writer, now time.Time) error {
	fmt.Fprintf(w, "Logs: %s\n", r.LogsDir)

	if len(r.Files) == 0 {
		fmt.Fprintln(w, "No event logs found.")
	} else {
		t := tablewriter.NewTable(w,
			tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
				Symbols: tw.NewSymbols(tw.StyleRounded),
			})),
			tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		)

		t.Header([]string{"File", "Records", "Size", "First", "Last"})

		for _, f := range r.Files {
			if err := t.Append([]string{
				f.Name,
				strconv.Itoa(f.Records),
				humanize.Bytes(nonNegative(f.SizeBytes)),
				relative(f.First, now),
				relative(f.Last, now),
			}); err != nil {
				return errors.Wrap(err, "failed to add table row")
			}
		}

		if err := t.Render(); err != nil {
			return errors.Wrap(err, "failed to render table")
		}
	}

	fmt.Fprintf(w, "Transcript backups: %d (%s)\n", r.Backups, humanize.Bytes(nonNegative(r.BackupBytes)))

	return nil
}

func relative(ts string, now time.Time) string {
	if ts == "" {
		return "-"
	}

	t, err := timing.ParseTimestamp(ts)
	if err != nil {
		return ts
	}

	return humanize.RelTime(t, now, "ago", "from now")
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}

	return uint64(n)
}
