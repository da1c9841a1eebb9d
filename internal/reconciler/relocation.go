package reconciler

import (
	"context"
	"errors"

	"restow/internal/logging"
	"restow/internal/pathkey"
	"restow/internal/relocate"
	"restow/internal/services"
)

// RelocationPass walks every linked object, computes its canonical key from
// catalog lineage, resolves where it currently lives, and relocates it when
// the two disagree. The catalog pointer advances only after the store move is
// confirmed. Items are independent: any per-item failure is recorded and the
// pass continues.
func (r *Reconciler) RelocationPass(ctx context.Context, dryRun bool) (RelocationReport, error) {
	ctx = services.WithPass(ctx, "relocation")
	logger := logging.WithContext(ctx, r.logger)
	report := RelocationReport{DryRun: dryRun}

	linked, err := r.catalog.LinkedObjects(ctx)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, "reconciler", "enumerate links", "", err)
	}

	// Multiple links may share an object; each object is reconciled once.
	seen := make(map[int64]bool, len(linked))

	for _, item := range linked {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if seen[item.Object.ID] {
			continue
		}
		seen[item.Object.ID] = true
		report.Processed++

		itemCtx := services.WithObjectID(ctx, item.Object.ID)
		itemLogger := logging.WithContext(itemCtx, r.logger)

		if len(item.Lineage) == 0 {
			report.Unresolvable++
			report.Failures = append(report.Failures, ItemFailure{
				ObjectID: item.Object.ID,
				LinkID:   item.Link.ID,
				Reason:   "owner entity has no resolvable lineage",
			})
			continue
		}

		target := pathkey.BuildTargetKey(item.Lineage, item.Object.FileName())

		current, err := r.resolver.CurrentKey(itemCtx, &item.Object)
		if err != nil {
			failure := ItemFailure{ObjectID: item.Object.ID, LinkID: item.Link.ID, Reason: err.Error()}
			if errors.Is(err, services.ErrNotFound) {
				report.Unresolvable++
				itemLogger.Warn("object not found in store, skipping", logging.Error(err))
			} else {
				report.Errored++
				itemLogger.Warn("key resolution failed", logging.Error(err))
			}
			report.Failures = append(report.Failures, failure)
			continue
		}

		if current == target {
			report.AlreadyPlaced++
			continue
		}

		move := PlannedMove{
			ObjectID:   item.Object.ID,
			CurrentKey: current,
			TargetKey:  target,
			SizeBytes:  item.Object.SizeBytes,
		}

		if dryRun {
			report.Moved++
			report.BytesMoved += item.Object.SizeBytes
			report.Moves = append(report.Moves, move)
			itemLogger.Info("would relocate",
				logging.String("current_key", current),
				logging.String("target_key", target),
			)
			continue
		}

		outcome, err := r.executor.Relocate(itemCtx, relocate.Plan{
			SourceKey:      current,
			DestinationKey: target,
			ContentType:    item.Object.ContentType,
			ExpectedSize:   item.Object.SizeBytes,
		})
		if err != nil {
			report.Errored++
			report.Failures = append(report.Failures, ItemFailure{
				ObjectID: item.Object.ID,
				LinkID:   item.Link.ID,
				Key:      current,
				Reason:   err.Error(),
			})
			itemLogger.Warn("relocate failed, pointer left untouched", logging.Error(err))
			continue
		}

		switch outcome {
		case relocate.OutcomeSourceMissing:
			report.SourceMissing++
			report.Failures = append(report.Failures, ItemFailure{
				ObjectID: item.Object.ID,
				LinkID:   item.Link.ID,
				Key:      current,
				Reason:   "source object missing from store",
			})
			continue
		case relocate.OutcomeAlreadyInPlace:
			report.AlreadyPlaced++
			continue
		}

		if err := r.catalog.UpdateObjectKey(itemCtx, item.Object.ID, target, pathkey.PublicURL(r.publicBaseURL, target)); err != nil {
			// The move is durable; the stale pointer heals on the next run
			// through the destination-exists branch.
			report.Errored++
			report.Failures = append(report.Failures, ItemFailure{
				ObjectID: item.Object.ID,
				LinkID:   item.Link.ID,
				Key:      target,
				Reason:   "moved but pointer update failed: " + err.Error(),
			})
			itemLogger.Warn("pointer update failed after move", logging.Error(err))
			continue
		}

		report.Moved++
		report.BytesMoved += item.Object.SizeBytes
		report.Moves = append(report.Moves, move)
	}

	logger.Info("relocation pass complete",
		logging.Bool("dry_run", dryRun),
		logging.Int("processed", report.Processed),
		logging.Int("moved", report.Moved),
		logging.Int("skipped", report.Skipped()),
		logging.Int("errored", report.Errored),
	)
	return report, nil
}
