// Package decision models the outcome a hook reports to the host.
package decision

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes understood by the host.
const (
	ExitAllow = 0
	ExitWarn  = 1
	ExitBlock = 2
)

// Verdict is the kind of decision.
type Verdict int

const (
	// VerdictAllow lets the action proceed silently.
	VerdictAllow Verdict = iota

	// VerdictBlock denies the action.
	VerdictBlock

	// VerdictWarn lets the action proceed and surfaces a message.
	VerdictWarn
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictBlock:
		return "block"
	case VerdictWarn:
		return "warn"
	default:
		return "allow"
	}
}

// Decision is the verdict plus the message for the error stream.
type Decision struct {
	Verdict Verdict
	Message string
}

// Allow returns an allow decision.
func Allow() Decision {
	return Decision{Verdict: VerdictAllow}
}

// Block returns a block decision carrying reason.
func Block(reason string) Decision {
	return Decision{Verdict: VerdictBlock, Message: reason}
}

// Warn returns a non-fatal warning decision.
func Warn(message string) Decision {
	return Decision{Verdict: VerdictWarn, Message: message}
}

// ExitCode maps the decision to the process exit status.
func (d Decision) ExitCode() int {
	switch d.Verdict {
	case VerdictBlock:
		return ExitBlock
	case VerdictWarn:
		return ExitWarn
	default:
		return ExitAllow
	}
}

// IsBlock reports whether the decision denies the action.
func (d Decision) IsBlock() bool {
	return d.Verdict == VerdictBlock
}

// ErrPanic wraps a value recovered from a panicking evaluation.
var ErrPanic = errors.New("hook panicked")

// Outcome is the result of a guarded evaluation. Err is set when the
// evaluation failed and the decision was forced to Allow.
type Outcome struct {
	Decision Decision
	Err      error
}

// FailedOpen reports whether the decision came from the fail-open branch.
func (o Outcome) FailedOpen() bool {
	return o.Err != nil
}

// Guard runs eval and maps any error or panic to Allow.
func Guard(eval func() (Decision, error)) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Decision: Allow(),
				Err:      errors.Wrap(ErrPanic, fmt.Sprint(r)),
			}
		}
	}()

	d, err := eval()
	if err != nil {
		return Outcome{Decision: Allow(), Err: err}
	}

	return Outcome{Decision: d}
}
