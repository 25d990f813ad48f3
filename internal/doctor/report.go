package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// StatusIcon returns a single-width character icon for a check result.
func StatusIcon(result CheckResult) string {
	switch result.Status {
	case StatusPass:
		return "✓"
	case StatusFail:
		switch result.Severity {
		case SeverityError:
			return "✗"
		case SeverityWarning:
			return "!"
		default:
			return "i"
		}
	case StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

// Report renders results as a table followed by a summary line. Details are
// only shown when verbose is set.
func Report(w io.Writer, results []CheckResult, verbose bool) error {
	t := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
	)

	headers := []string{"", "Category", "Check", "Message"}
	if verbose {
		headers = append(headers, "Details")
	}

	t.Header(headers)

	for _, r := range results {
		row := []string{StatusIcon(r), string(r.Category), r.Name, r.Message}
		if verbose {
			row = append(row, strings.Join(r.Details, "\n"))
		}

		if err := t.Append(row); err != nil {
			return errors.Wrap(err, "failed to add table row")
		}
	}

	if err := t.Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	errs, warnings, passed := Summary(results)
	fmt.Fprintf(w, "Summary: %d error(s), %d warning(s), %d passed\n", errs, warnings, passed)

	return nil
}
