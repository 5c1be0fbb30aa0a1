package app

import (
	"context"
	"errors"
	"fmt"

	"picren/internal/config"
	"picren/internal/domain"
	apperrors "picren/internal/errors"
	"picren/internal/logging"
)

// Executor applies a plan to storage, one entry at a time. Failures are
// isolated per entry; the batch continues past them.
type Executor struct {
	Store      Storage
	Resizer    Resizer
	Logger     logging.Logger
	OnProgress ProgressFunc
}

// Execute realizes every entry that planning left in Pending status, in
// order, recording the outcome on the entry itself. A dry run returns
// without touching storage or statuses. Cancellation marks the untouched
// remainder Skipped.
func (e *Executor) Execute(ctx context.Context, plan *domain.RenamePlan, cfg config.RenameConfig) error {
	if e.Store == nil {
		return errors.New("executor requires Store")
	}
	if cfg.DryRun {
		return nil
	}

	stop := e.Logger.Measure("Executing plan")
	defer stop()

	renamer, canRename := e.Store.(Renamer)
	total := len(plan.Entries)

	for i := range plan.Entries {
		entry := &plan.Entries[i]

		select {
		case <-ctx.Done():
			for j := i; j < total; j++ {
				if plan.Entries[j].Status == domain.StatusPending {
					plan.Entries[j].Status = domain.StatusSkipped
				}
			}
			return ctx.Err()
		default:
		}

		// Planning errors are terminal; never attempted.
		if entry.Status != domain.StatusPending {
			e.report(i+1, total)
			continue
		}

		if err := e.apply(ctx, entry, cfg, renamer, canRename); err != nil {
			entry.Status = domain.StatusError
			entry.ErrorMessage = err.Error()
			e.Logger.Verbosef("Entry %s failed: %v", entry.Path, err)
		} else if entry.Status == domain.StatusPending {
			entry.Status = domain.StatusSuccess
		}
		e.report(i+1, total)
	}

	return nil
}

func (e *Executor) apply(ctx context.Context, entry *domain.PlannedEntry, cfg config.RenameConfig, renamer Renamer, canRename bool) error {
	original := entry.Path
	target := entry.TargetName()

	if target == original && !cfg.EnableResize {
		return nil
	}

	// Fast path: a plain rename with no transform and no original kept
	// collapses write-then-remove into one step.
	if canRename && !cfg.EnableResize && !cfg.KeepOriginals {
		if err := renamer.Rename(ctx, original, target); err != nil {
			return apperrors.Wrap(apperrors.IOFailure, "rename", original, err)
		}
		return nil
	}

	data, err := e.Store.Read(ctx, original)
	if err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "read", original, err)
	}

	if cfg.EnableResize {
		width, widthErr := e.Resizer.SourceWidth(data)
		if widthErr != nil {
			return apperrors.Wrap(apperrors.DecodeFailure, "resize", original, widthErr)
		}
		if e.Resizer.ShouldResize(width, cfg.ResizeWidth) {
			out, resizeErr := e.Resizer.Resize(data, domain.MIMEType(entry.Ext), cfg.ResizeWidth, cfg.ResizeQuality)
			if resizeErr != nil {
				return resizeErr
			}
			data = out
		}
	}

	final := target
	if cfg.KeepOriginals && cfg.EnableResize {
		// Keep the transformed output from colliding with the source.
		final = entry.NewName + "_resized" + entry.Ext
	}

	if err := e.Store.Write(ctx, final, data); err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "write", final, err)
	}

	// Remove only after the write committed, so a removal failure leaves
	// a stale original behind but never loses content.
	if !cfg.KeepOriginals && final != original {
		if err := e.Store.Remove(ctx, original); err != nil {
			return apperrors.Wrap(apperrors.IOFailure, "remove", original,
				fmt.Errorf("wrote %s but the original remains: %w", final, err))
		}
	}

	return nil
}

func (e *Executor) report(current, total int) {
	if e.OnProgress != nil {
		e.OnProgress(current, total)
	}
}
