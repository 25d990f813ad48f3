package backup

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidMaxBackups is returned when MaxBackups is invalid.
	ErrInvalidMaxBackups = errors.New("max backups must be positive")

	// ErrInvalidMaxAge is returned when MaxAge is invalid.
	ErrInvalidMaxAge = errors.New("max age must be positive")
)

// Entry is one backup file on disk.
type Entry struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// RetentionPolicy decides whether a backup is kept.
type RetentionPolicy interface {
	ShouldRetain(entry Entry, context RetentionContext) bool
}

// RetentionContext carries the full backup set for a retention decision.
type RetentionContext struct {
	// All is every backup, newest first.
	All []Entry

	// Now is the current time for age calculations.
	Now time.Time
}

// CountRetentionPolicy keeps the N most recent backups.
type CountRetentionPolicy struct {
	MaxBackups int
}

// NewCountRetentionPolicy creates a new count retention policy.
func NewCountRetentionPolicy(maxBackups int) (*CountRetentionPolicy, error) {
	if maxBackups <= 0 {
		return nil, ErrInvalidMaxBackups
	}

	return &CountRetentionPolicy{MaxBackups: maxBackups}, nil
}

// ShouldRetain implements RetentionPolicy.
func (p *CountRetentionPolicy) ShouldRetain(entry Entry, context RetentionContext) bool {
	for i, e := range context.All {
		if i >= p.MaxBackups {
			return false
		}

		if e.Path == entry.Path {
			return true
		}
	}

	return false
}

// AgeRetentionPolicy removes backups older than MaxAge.
type AgeRetentionPolicy struct {
	MaxAge time.Duration
}

// NewAgeRetentionPolicy creates a new age retention policy.
func NewAgeRetentionPolicy(maxAge time.Duration) (*AgeRetentionPolicy, error) {
	if maxAge <= 0 {
		return nil, ErrInvalidMaxAge
	}

	return &AgeRetentionPolicy{MaxAge: maxAge}, nil
}

// ShouldRetain implements RetentionPolicy.
func (p *AgeRetentionPolicy) ShouldRetain(entry Entry, context RetentionContext) bool {
	return context.Now.Sub(entry.ModTime) <= p.MaxAge
}

// CompositeRetentionPolicy retains a backup only if every policy does.
type CompositeRetentionPolicy struct {
	Policies []RetentionPolicy
}

// NewCompositeRetentionPolicy creates a new composite retention policy.
func NewCompositeRetentionPolicy(policies ...RetentionPolicy) *CompositeRetentionPolicy {
	return &CompositeRetentionPolicy{Policies: policies}
}

// ShouldRetain implements RetentionPolicy.
func (p *CompositeRetentionPolicy) ShouldRetain(entry Entry, context RetentionContext) bool {
	for _, policy := range p.Policies {
		if !policy.ShouldRetain(entry, context) {
			return false
		}
	}

	return true
}

// PolicyFor builds the policy for the configured limits. Zero values disable
// the matching limit; nil means keep everything.
//
//nolint:ireturn // nil signals no pruning
func PolicyFor(maxBackups int, maxAge time.Duration) RetentionPolicy {
	var policies []RetentionPolicy

	if p, err := NewCountRetentionPolicy(maxBackups); err == nil {
		policies = append(policies, p)
	}

	if p, err := NewAgeRetentionPolicy(maxAge); err == nil {
		policies = append(policies, p)
	}

	if len(policies) == 0 {
		return nil
	}

	return NewCompositeRetentionPolicy(policies...)
}

// List returns the backups in dir, newest first. A missing directory yields
// an empty list.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to read backup directory")
	}

	entries := make([]Entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), Extension) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Path:    filepath.Join(dir, de.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].Path > entries[j].Path
		}

		return entries[i].ModTime.After(entries[j].ModTime)
	})

	return entries, nil
}

// Prune removes backups in dir rejected by policy and returns the removed
// paths. A nil policy removes nothing.
func Prune(dir string, policy RetentionPolicy, now time.Time) ([]string, error) {
	if policy == nil {
		return nil, nil
	}

	entries, err := List(dir)
	if err != nil {
		return nil, err
	}

	context := RetentionContext{All: entries, Now: now}

	var removed []string

	for _, e := range entries {
		if policy.ShouldRetain(e, context) {
			continue
		}

		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, "failed to remove %s", e.Path)
		}

		removed = append(removed, e.Path)
	}

	return removed, nil
}
