package reconciler

import (
	"context"

	"restow/internal/logging"
	"restow/internal/services"
)

// HygienePass repairs the link table: orphaned rows (object gone), dangling
// rows (owner entity gone), and duplicates of one (object, owner, slot)
// grouping. Re-running finds nothing left to remove. A failing corruption
// class is recorded and the pass continues with the next class.
func (r *Reconciler) HygienePass(ctx context.Context, dryRun bool) (HygieneReport, error) {
	ctx = services.WithPass(ctx, "hygiene")
	logger := logging.WithContext(ctx, r.logger)
	report := HygieneReport{DryRun: dryRun}

	classes := []struct {
		name    string
		count   func(context.Context) (int64, error)
		execute func(context.Context) (int64, error)
		target  *int64
	}{
		{"orphaned", r.catalog.CountOrphanedLinks, r.catalog.DeleteOrphanedLinks, &report.Orphaned},
		{"dangling", r.catalog.CountDanglingLinks, r.catalog.DeleteDanglingLinks, &report.Dangling},
		{"duplicate", r.catalog.CountDuplicateLinks, r.catalog.DeleteDuplicateLinks, &report.Duplicates},
	}

	for _, class := range classes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		op := class.execute
		if dryRun {
			op = class.count
		}
		n, err := op(ctx)
		if err != nil {
			report.Failures = append(report.Failures, class.name+": "+err.Error())
			logger.Warn("hygiene class failed",
				logging.String("class", class.name),
				logging.Error(err),
			)
			continue
		}
		*class.target = n
	}

	logger.Info("hygiene pass complete",
		logging.Bool("dry_run", dryRun),
		logging.Int64("orphaned", report.Orphaned),
		logging.Int64("dangling", report.Dangling),
		logging.Int64("duplicates", report.Duplicates),
	)
	return report, nil
}
