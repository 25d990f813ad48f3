// Package files checks that an agent produced the expected output files in
// a project directory.
package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// ErrNoMatch is returned when no file with the extension exists.
var ErrNoMatch = errors.New("no matching files")

// Result is the outcome of a validation, printed verbatim by the CLI.
type Result struct {
	Valid   bool
	Message string
}

// Finder locates files under a project root.
type Finder struct {
	root string
}

// NewFinder creates a finder rooted at the project directory.
func NewFinder(root string) *Finder {
	return &Finder{root: root}
}

// NormalizeExtension ensures ext starts with a dot.
func NormalizeExtension(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}

	return "." + ext
}

// Newest returns the most recently modified file with extension ext directly
// inside directory.
func (f *Finder) Newest(directory, ext string) (string, error) {
	target := filepath.Join(f.root, directory)

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return "", errors.Wrapf(fs.ErrNotExist, "directory %q", directory)
	}

	ext = NormalizeExtension(ext)

	matches, err := doublestar.Glob(os.DirFS(target), "*"+escape(ext), doublestar.WithFilesOnly())
	if err != nil {
		return "", errors.Wrap(err, "failed to list directory")
	}

	var (
		newest     string
		newestTime time.Time
	)

	for _, name := range matches {
		fi, err := os.Stat(filepath.Join(target, name))
		if err != nil {
			continue
		}

		if newest == "" || fi.ModTime().After(newestTime) {
			newest, newestTime = name, fi.ModTime()
		}
	}

	if newest == "" {
		return "", errors.Wrapf(ErrNoMatch, "extension %q in %q", ext, directory)
	}

	return filepath.Join(target, newest), nil
}

// NewFile validates that directory contains at least one file with ext.
func (f *Finder) NewFile(directory, ext string) Result {
	path, err := f.Newest(directory, ext)
	if err != nil {
		return failure(directory, ext, err)
	}

	return Result{Valid: true, Message: "✓ Found file: " + filepath.Base(path)}
}

// FileContains validates that the newest file with ext in directory contains
// every required string.
func (f *Finder) FileContains(directory, ext string, required []string) Result {
	path, err := f.Newest(directory, ext)
	if err != nil {
		return failure(directory, ext, err)
	}

	name := filepath.Base(path)

	//nolint:gosec // path was discovered under the project root
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Message: "Failed to read file '" + name + "': " + err.Error()}
	}

	content := string(data)

	var missing []string

	for _, s := range required {
		if !strings.Contains(content, s) {
			missing = append(missing, s)
		}
	}

	if len(missing) > 0 {
		var sb strings.Builder

		sb.WriteString("✗ File '" + name + "' is missing required content:")

		for _, s := range missing {
			sb.WriteString("\n  - " + s)
		}

		return Result{Message: sb.String()}
	}

	return Result{Valid: true, Message: "✓ File '" + name + "' contains all required sections"}
}

func failure(directory, ext string, err error) Result {
	if errors.Is(err, ErrNoMatch) {
		return Result{Message: "No files with extension '" + NormalizeExtension(ext) + "' found in '" + directory + "'"}
	}

	return Result{Message: "Directory '" + directory + "' does not exist"}
}

// escape quotes glob metacharacters in a literal suffix.
func escape(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			sb.WriteByte('\\')
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
