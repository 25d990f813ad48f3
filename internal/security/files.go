package security

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchFile returns the first rule blocking path.
func MatchFile(rules []FileRule, path string) (FileRule, bool) {
	if path == "" {
		return FileRule{}, false
	}

	name := strings.TrimLeft(filepath.ToSlash(path), "/")

	for _, rule := range rules {
		ok, err := doublestar.Match(rule.Glob, name)
		if err != nil || !ok {
			continue
		}

		if exempt(rule, path) {
			continue
		}

		return rule, true
	}

	return FileRule{}, false
}

func exempt(rule FileRule, path string) bool {
	for _, marker := range rule.Except {
		if strings.Contains(path, marker) {
			return true
		}
	}

	return false
}
