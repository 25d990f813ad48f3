package handlers

import (
	"context"

	"github.com/smykla-skalski/claude-hooks/internal/backup"
	"github.com/smykla-skalski/claude-hooks/internal/decision"
	"github.com/smykla-skalski/claude-hooks/internal/eventlog"
	"github.com/smykla-skalski/claude-hooks/internal/runner"
	"github.com/smykla-skalski/claude-hooks/pkg/hook"
)

// PreCompact copies the transcript into the backup directory before the
// host compacts it, then applies the configured retention.
func (h *Hooks) PreCompact(_ context.Context, ev *hook.Event) (runner.Result, error) {
	if ev.TranscriptPath == "" {
		return allow, nil
	}

	dst, err := backup.NewTranscripts(h.paths.Backups).WithClock(h.now).Backup(ev.TranscriptPath)

	rec := base(EventPreCompact, ev)
	rec["transcript_path"] = ev.TranscriptPath
	rec["backup_success"] = err == nil

	h.append(eventlog.FilePreCompact, rec)

	if err != nil {
		h.logger.Error("transcript backup failed", "transcript", ev.TranscriptPath, "error", err)

		return runner.Result{
			Decision: decision.Allow(),
			Notice:   "Warning: Transcript backup failed: " + err.Error(),
		}, nil
	}

	h.logger.Debug("transcript backed up", "backup", dst)
	h.prune()

	return runner.Result{
		Decision: decision.Allow(),
		Notice:   "Transcript backed up to " + h.paths.Backups,
	}, nil
}

func (h *Hooks) prune() {
	b := h.cfg.GetBackup()

	policy := backup.PolicyFor(b.MaxBackups, b.MaxAge.ToDuration())
	if policy == nil {
		return
	}

	removed, err := backup.Prune(h.paths.Backups, policy, h.now())
	if err != nil {
		h.logger.Error("backup retention failed", "error", err)

		return
	}

	if len(removed) > 0 {
		h.logger.Info("pruned transcript backups", "count", len(removed))
	}
}
