package handlers

import (
	"context"
	"fmt"

	"github.com/hako/durafmt"

	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/internal/timing"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// durationUnits is how many units the notify message shows.
const durationUnits = 2

// SubagentStart logs a spawned subagent. With notify a summary line goes to
// stderr.
func (h *Hooks) SubagentStart(notify bool) runner.Handler {
	return func(_ context.Context, ev *hook.Event) (runner.Result, error) {
		rec := base(EventSubagentStart, ev)
		rec["subagent_id"] = nullable(ev.SubagentID)
		rec["subagent_type"] = nullable(ev.SubagentType)
		rec["description"] = nullable(ev.Description)

		h.append(eventlog.FileSubagents, rec)

		res := runner.Result{Decision: decision.Allow()}

		if notify {
			res.Notice = fmt.Sprintf("Subagent started: %s - %s",
				hook.StringOr(ev.SubagentType, unknown),
				hook.StringOr(ev.Description, "No description"),
			)
		}

		return res, nil
	}
}

// SubagentStop logs a finished subagent. When the matching start record is
// found and both timestamps parse, the run duration is added.
func (h *Hooks) SubagentStop(notify bool) runner.Handler {
	return func(_ context.Context, ev *hook.Event) (runner.Result, error) {
		now := h.sink.Now()
		status := hook.StringOr(ev.Status, defaultStatus)

		rec := base(EventSubagentStop, ev)
		rec["subagent_id"] = nullable(ev.SubagentID)
		rec["subagent_type"] = nullable(ev.SubagentType)
		rec["status"] = status
		rec[eventlog.KeyTimestamp] = now

		d, timed := h.subagentDuration(ev.SubagentID, now)
		if timed {
			rec["duration_seconds"] = d.Seconds
			rec["duration_minutes"] = d.Minutes
			rec["start_time"] = d.start
		}

		h.append(eventlog.FileSubagents, rec)

		res := runner.Result{Decision: decision.Allow()}

		if notify {
			res.Notice = fmt.Sprintf("Subagent %s: %s", status, hook.StringOr(ev.SubagentType, unknown))

			if timed {
				res.Notice += " (" + durafmt.Parse(d.Elapsed).LimitFirstN(durationUnits).String() + ")"
			}
		}

		return res, nil
	}
}

type subagentRun struct {
	timing.Duration

	start string
}

func (h *Hooks) subagentDuration(id, now string) (subagentRun, bool) {
	if id == "" {
		return subagentRun{}, false
	}

	start, found := h.sink.FindFirst(h.paths.Log(eventlog.FileSubagents), func(r eventlog.Record) bool {
		return r.StringField(eventlog.KeyEvent) == EventSubagentStart && r.StringField("subagent_id") == id
	})
	if !found {
		return subagentRun{}, false
	}

	startTime := start.StringField(eventlog.KeyTimestamp)
	if startTime == "" {
		return subagentRun{}, false
	}

	d, ok := timing.Between(startTime, now)
	if !ok {
		h.logger.Debug("subagent duration skipped", "subagent_id", id, "start", startTime)

		return subagentRun{}, false
	}

	return subagentRun{Duration: d, start: startTime}, true
}
