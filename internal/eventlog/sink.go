// Package eventlog appends hook events to per-kind JSON-lines files.
package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/claude-hooks/pkg/logger"
)

const (
	// FilePerm is the mode for newly created log files.
	FilePerm = 0o644

	// DirPerm is the mode for newly created log directories.
	DirPerm = 0o755

	// TimestampLayout is ISO-8601 with microseconds and a zone offset.
	TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

	// maxLineBytes bounds a single record when scanning.
	maxLineBytes = 16 << 20
)

// Well-known record keys.
const (
	KeyEvent     = "event"
	KeyTimestamp = "timestamp"
	KeyRecordID  = "record_id"
)

// Record is one flat log entry.
type Record map[string]any

// StringField returns the value at key when it is a string.
func (r Record) StringField(key string) string {
	s, _ := r[key].(string)

	return s
}

// Sink writes records. Append never fails from the caller's point of view.
type Sink struct {
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithLogger sets the diagnostic logger used to report swallowed errors.
func WithLogger(log logger.Logger) SinkOption {
	return func(s *Sink) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock sets the time source used for generated timestamps.
func WithClock(now func() time.Time) SinkOption {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the function producing record ids.
func WithIDGenerator(fn func() string) SinkOption {
	return func(s *Sink) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSink creates a Sink.
func NewSink(opts ...SinkOption) *Sink {
	s := &Sink{
		logger: logger.NewNoOpLogger(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the sink's current time formatted as a record timestamp.
func (s *Sink) Now() string {
	return s.now().Format(TimestampLayout)
}

// Append writes rec as one line of compact JSON to path. Parent directories
// are created first. Every failure is logged and discarded.
func (s *Sink) Append(path string, rec Record) {
	if err := s.append(path, rec); err != nil {
		s.logger.Error("event log append failed", "path", path, "error", err)
	}
}

func (s *Sink) append(path string, rec Record) error {
	out := make(Record, len(rec)+2)
	maps.Copy(out, rec)

	if _, ok := out[KeyTimestamp]; !ok {
		out[KeyTimestamp] = s.Now()
	}

	if _, ok := out[KeyRecordID]; !ok {
		out[KeyRecordID] = s.newID()
	}

	var line bytes.Buffer

	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(out); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}

	//nolint:gosec // path is derived from the project log directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, FilePerm)
	if err != nil {
		return err
	}

	// A single write keeps the line intact under O_APPEND.
	_, writeErr := f.Write(line.Bytes())
	closeErr := f.Close()

	if writeErr != nil {
		return writeErr
	}

	return closeErr
}

// FindFirst scans path line by line and returns the first record for which
// match returns true. Lines that do not decode are skipped. A missing or
// unreadable file yields no match.
func (s *Sink) FindFirst(path string, match func(Record) bool) (Record, bool) {
	var found Record

	_, err := Scan(path, func(rec Record) bool {
		if match(rec) {
			found = rec

			return false
		}

		return true
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("event log scan stopped", "path", path, "error", err)
	}

	return found, found != nil
}

// Scan calls fn for each decodable record in path until fn returns false.
// It returns the number of lines that did not decode to an object.
func Scan(path string, fn func(Record) bool) (int, error) {
	//nolint:gosec // path is derived from the project log directory
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "opening event log")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	skipped := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil || rec == nil {
			skipped++

			continue
		}

		if !fn(rec) {
			return skipped, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return skipped, errors.Wrap(err, "reading event log")
	}

	return skipped, nil
}
