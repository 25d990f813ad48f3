package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	internalgit "github.com/smykla-skalski/claude-hooks/internal/git"
	"github.com/smykla-skalski/claude-hooks/internal/issues"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

const truncatedSuffix = "\n\n... (truncated)"

// Doc is one project document loaded into the context block.
type Doc struct {
	Name    string
	Content string
}

// DevelopmentContext is what session-start gathers with --load-context.
type DevelopmentContext struct {
	Timestamp string
	SessionID string
	Source    string
	Git       *internalgit.Status
	Issues    []issues.Issue
	Docs      []Doc
}

// Keys lists the populated sections in a stable order.
func (c *DevelopmentContext) Keys() []string {
	keys := []string{"timestamp", "session_id", "session_source"}

	if c.Git != nil {
		keys = append(keys, "git")
	}

	if len(c.Issues) > 0 {
		keys = append(keys, "recent_issues")
	}

	if len(c.Docs) > 0 {
		keys = append(keys, "documentation")
	}

	return keys
}

// Markdown renders the "Development Context" block. Issues are capped at
// issueLimit and each document at previewChars.
func (c *DevelopmentContext) Markdown(issueLimit, previewChars int) string {
	var b strings.Builder

	b.WriteString("## Development Context\n\n")

	if g := c.Git; g != nil {
		fmt.Fprintf(&b, "**Branch:** `%s`\n", g.Branch)

		if !g.IsClean {
			fmt.Fprintf(&b, "**Uncommitted changes:** %d files\n", g.UncommittedCount)
		}

		if g.LastCommit != "" {
			fmt.Fprintf(&b, "**Last commit:** %s\n", g.LastCommit)
		}

		b.WriteString("\n")
	}

	if len(c.Issues) > 0 {
		b.WriteString("**Recent Issues:**\n")

		for i, is := range c.Issues {
			if i == issueLimit {
				break
			}

			fmt.Fprintf(&b, "- #%d: %s\n", is.Number, is.Title)
		}

		b.WriteString("\n")
	}

	if len(c.Docs) > 0 {
		b.WriteString("**Project Documentation:**\n")

		for _, doc := range c.Docs {
			fmt.Fprintf(&b, "\n### %s\n%s\n", doc.Name, truncateRunes(doc.Content, previewChars))
		}
	}

	return b.String()
}

func (h *Hooks) loadContext(ctx context.Context, ev *hook.Event) *DevelopmentContext {
	ctxCfg := h.cfg.GetContext()

	dc := &DevelopmentContext{
		Timestamp: h.sink.Now(),
		SessionID: ev.SessionID,
		Source:    hook.StringOr(ev.Source, unknown),
	}

	if st := h.gitInspector().Status(ctx); st.IsRepo {
		dc.Git = &st

		list, err := h.issueLister().List(ctx, ctxCfg.GetIssueLimit())
		if err != nil {
			h.logger.Debug("no recent issues", "error", err)
		} else {
			dc.Issues = list
		}
	}

	for _, name := range ctxCfg.DocFiles {
		content, ok := readDoc(filepath.Join(h.paths.Root, filepath.FromSlash(name)), ctxCfg.GetDocMaxChars())
		if ok {
			dc.Docs = append(dc.Docs, Doc{Name: name, Content: content})
		}
	}

	return dc
}

// readDoc returns up to maxChars characters of path. Missing, empty and
// unreadable files report false.
func readDoc(path string, maxChars int) (string, bool) {
	//nolint:gosec // path is a configured project document
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var b strings.Builder

	for range maxChars {
		ch, _, err := r.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", false
			}

			break
		}

		b.WriteRune(ch)
	}

	if b.Len() == 0 {
		return "", false
	}

	if _, err := r.Peek(1); err == nil {
		b.WriteString(truncatedSuffix)
	}

	return b.String(), true
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}

	i := 0

	for pos := range s {
		if i == n {
			return s[:pos]
		}

		i++
	}

	return s
}
