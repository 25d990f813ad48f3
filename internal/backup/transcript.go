// Package backup copies session transcripts aside before compaction.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// DirPerm is the permission for the backup directory.
	DirPerm = 0o755

	// FilePerm is the permission for backup files.
	FilePerm = 0o600

	// Extension is appended to every backup name.
	Extension = ".jsonl"

	stampLayout = "20060102_150405"
)

var (
	// ErrTranscriptMissing is returned when the transcript does not exist.
	ErrTranscriptMissing = errors.New("transcript not found")

	// ErrNotRegularFile is returned for directories and special files.
	ErrNotRegularFile = errors.New("transcript is not a regular file")
)

// Transcripts writes timestamped copies of transcripts into Dir.
type Transcripts struct {
	Dir string
	now func() time.Time
}

// NewTranscripts creates a backup writer for dir.
func NewTranscripts(dir string) *Transcripts {
	return &Transcripts{Dir: dir, now: time.Now}
}

// WithClock overrides the clock used for backup names.
func (t *Transcripts) WithClock(now func() time.Time) *Transcripts {
	t.now = now

	return t
}

// Name returns the backup file name for src taken at ts:
// <stem>_YYYYMMDD_HHMMSS.jsonl.
func Name(src string, ts time.Time) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return stem + "_" + ts.Format(stampLayout) + Extension
}

// Backup copies src into the backup directory and returns the new path.
// The copy's modification time is the backup time, which retention relies on.
func (t *Transcripts) Backup(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrTranscriptMissing, "%s", src)
		}

		return "", errors.Wrap(err, "failed to stat transcript")
	}

	if !info.Mode().IsRegular() {
		return "", errors.Wrapf(ErrNotRegularFile, "%s", src)
	}

	if err := os.MkdirAll(t.Dir, DirPerm); err != nil {
		return "", errors.Wrap(err, "failed to create backup directory")
	}

	dst := filepath.Join(t.Dir, Name(src, t.now()))

	if err := copyFile(src, dst); err != nil {
		return "", err
	}

	return dst, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "failed to open transcript")
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return errors.Wrap(err, "failed to create backup file")
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close backup file")
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(err, "failed to copy transcript")
	}

	return nil
}
