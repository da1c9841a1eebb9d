package relocate

import (
	"context"
	"log/slog"
	"strings"

	"restow/internal/logging"
	"restow/internal/objectstore"
	"restow/internal/services"
)

// Plan describes one relocate attempt. It is computed, never stored, and lives
// only for the duration of the attempt. ExpectedSize is the catalog's recorded
// object size, or zero when unknown.
type Plan struct {
	SourceKey      string
	DestinationKey string
	ContentType    string
	ExpectedSize   int64
}

// Outcome classifies how a relocate attempt ended.
type Outcome int

const (
	// OutcomeMoved means the object was copied to the destination and the
	// source was deleted.
	OutcomeMoved Outcome = iota
	// OutcomeAlreadyInPlace means source and destination keys were equal;
	// no remote call was made.
	OutcomeAlreadyInPlace
	// OutcomeSourceMissing means the source key does not exist. Non-fatal:
	// callers record and skip.
	OutcomeSourceMissing
	// OutcomeDestinationExists means the destination already held an object.
	// The destination is authoritative and the source was deleted; this
	// resolves a prior run that copied but failed to delete.
	OutcomeDestinationExists
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeAlreadyInPlace:
		return "already-in-place"
	case OutcomeSourceMissing:
		return "source-missing"
	case OutcomeDestinationExists:
		return "destination-exists"
	default:
		return "unknown"
	}
}

// Updated reports whether the outcome means the destination key now holds the
// object, so the catalog pointer may be advanced.
func (o Outcome) Updated() bool {
	return o == OutcomeMoved || o == OutcomeDestinationExists
}

// Executor performs idempotent relocates against the object store.
type Executor struct {
	store  objectstore.Store
	logger *slog.Logger

	// verifyDestination guards the destination-exists branch: when the
	// catalog knows the object's size and the destination reports a
	// different one, the source is kept and a conflict returned instead of
	// silently trusting the destination.
	verifyDestination bool
}

// NewExecutor constructs a move executor.
func NewExecutor(store objectstore.Store, logger *slog.Logger, verifyDestination bool) *Executor {
	return &Executor{
		store:             store,
		logger:            logging.NewComponentLogger(logger, "relocate"),
		verifyDestination: verifyDestination,
	}
}

// Relocate moves an object from plan.SourceKey to plan.DestinationKey.
//
// Cancellation is honored only before the first remote call; a copy in flight
// has no partial rollback, so once started the relocate runs to completion or
// failure. Re-running after a crash between copy and delete is safe: the
// destination-exists check turns the retry into a source cleanup.
func (e *Executor) Relocate(ctx context.Context, plan Plan) (Outcome, error) {
	src := strings.TrimSpace(plan.SourceKey)
	dst := strings.TrimSpace(plan.DestinationKey)
	if src == "" || dst == "" {
		return 0, services.Wrap(services.ErrValidation, "relocate", "plan", "source and destination keys are required", nil)
	}
	if src == dst {
		return OutcomeAlreadyInPlace, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	// From here on the operation runs to completion even if the caller's
	// context is cancelled.
	ctx = context.WithoutCancel(ctx)

	logger := logging.WithContext(ctx, e.logger).With(
		logging.String("source_key", src),
		logging.String("destination_key", dst),
	)

	dstInfo, err := e.store.Head(ctx, dst)
	switch {
	case err == nil:
		if e.verifyDestination && plan.ExpectedSize > 0 && dstInfo.Size != plan.ExpectedSize {
			return 0, services.Wrap(services.ErrConflict, "relocate", "verify destination",
				"destination exists with a different size; keeping source", nil)
		}
		if err := e.store.Delete(ctx, src); err != nil {
			return 0, services.Wrap(services.ErrTransient, "relocate", "delete source", "destination already present", err)
		}
		logger.Info("destination already present, source removed")
		return OutcomeDestinationExists, nil
	case !objectstore.IsNotFound(err):
		return 0, services.Wrap(services.ErrTransient, "relocate", "head destination", "", err)
	}

	if _, err := e.store.Head(ctx, src); err != nil {
		if objectstore.IsNotFound(err) {
			return OutcomeSourceMissing, nil
		}
		return 0, services.Wrap(services.ErrTransient, "relocate", "head source", "", err)
	}

	if err := e.store.Copy(ctx, src, dst, plan.ContentType); err != nil {
		return 0, services.Wrap(services.ErrTransient, "relocate", "copy object", "", err)
	}
	if err := e.store.Delete(ctx, src); err != nil {
		// The copy is durable; the next run resolves this through the
		// destination-exists branch.
		return 0, services.Wrap(services.ErrTransient, "relocate", "delete source", "copy succeeded but source remains", err)
	}

	logger.Info("object relocated")
	return OutcomeMoved, nil
}
