// Package markdown runs lightweight structural checks on markdown files
// written by the assistant.
package markdown

import (
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Issue messages reported by Analyze.
const (
	IssueEmptyHeading   = "Empty headings found"
	IssueUnclosedFence  = "Unclosed code blocks"
	IssueEmptyLinkURL   = "Empty link URLs found"
	issueReadFilePrefix = "Error reading file: "
)

// Extension is the suffix of files the validator inspects.
const Extension = ".md"

var (
	emptyHeadingPattern = regexp.MustCompile(`(?m)^#+\s*$`)
	emptyLinkPattern    = regexp.MustCompile(`\[[^\]]+\]\(\s*\)`)
)

// Analyze returns the issues found in content, in a fixed order.
func Analyze(content string) []string {
	var issues []string

	if emptyHeadingPattern.MatchString(content) {
		issues = append(issues, IssueEmptyHeading)
	}

	if strings.Count(content, "```")%2 != 0 {
		issues = append(issues, IssueUnclosedFence)
	}

	if emptyLinkPattern.MatchString(content) {
		issues = append(issues, IssueEmptyLinkURL)
	}

	return issues
}

// AnalyzeFile reads path and analyzes it. A read failure is reported as an
// issue rather than an error.
func AnalyzeFile(path string) []string {
	//nolint:gosec // path comes from the tool call under inspection
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{issueReadFilePrefix + err.Error()}
	}

	return Analyze(string(data))
}

// Applies reports whether path is an existing markdown file.
func Applies(path string) (bool, error) {
	if !strings.HasSuffix(path, Extension) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, errors.Wrap(err, "failed to stat markdown file")
	}

	return !info.IsDir(), nil
}

// Summary formats issues as the additional context line sent to the host.
func Summary(path string, issues []string) string {
	return "Markdown validation issues in " + path + ": " + strings.Join(issues, ", ")
}
