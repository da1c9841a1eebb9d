package resolve

import (
	"context"
	"log/slog"

	"restow/internal/catalog"
	"restow/internal/logging"
	"restow/internal/objectstore"
	"restow/internal/services"
)

// Resolver determines the current key of a stored object by trying an ordered
// chain of strategies, verifying each candidate against the store. A candidate
// that does not actually exist is never returned.
type Resolver struct {
	store      objectstore.Store
	strategies []Strategy
	logger     *slog.Logger
}

// Options tunes resolver construction.
type Options struct {
	// PublicBaseURL is the base under which stored objects are publicly
	// reachable; empty disables the URL strategy.
	PublicBaseURL string
	// ListPageSize is the page size for the listing fallback.
	ListPageSize int
	// ListingScanCap bounds how many store entries the listing fallback
	// may examine per resolution attempt.
	ListingScanCap int
}

// New constructs a resolver with the standard strategy chain:
// explicit metadata, public URL parse, legacy hash convention, bounded
// listing scan.
func New(store objectstore.Store, logger *slog.Logger, opts Options) *Resolver {
	if opts.ListPageSize <= 0 {
		opts.ListPageSize = 1000
	}
	if opts.ListingScanCap <= 0 {
		opts.ListingScanCap = 10000
	}
	return &Resolver{
		store:  store,
		logger: logging.NewComponentLogger(logger, "resolve"),
		strategies: []Strategy{
			metadataStrategy{},
			urlStrategy{baseURL: opts.PublicBaseURL},
			hashStrategy{},
			listingStrategy{store: store, pageSize: opts.ListPageSize, scanCap: opts.ListingScanCap},
		},
	}
}

// NewWithStrategies constructs a resolver over an explicit chain (tests and
// extensions).
func NewWithStrategies(store objectstore.Store, logger *slog.Logger, strategies ...Strategy) *Resolver {
	return &Resolver{
		store:      store,
		logger:     logging.NewComponentLogger(logger, "resolve"),
		strategies: strategies,
	}
}

// CurrentKey resolves where the object currently lives in the store.
// It returns services.ErrNotFound when every strategy is exhausted; callers
// treat that as "cannot relocate, skip and flag", never as fatal.
func (r *Resolver) CurrentKey(ctx context.Context, obj *catalog.StoredObject) (string, error) {
	key, _, err := r.currentKey(ctx, obj)
	return key, err
}

// CurrentKeyWithStrategy is CurrentKey plus the name of the strategy that
// produced the verified key, for diagnostics.
func (r *Resolver) CurrentKeyWithStrategy(ctx context.Context, obj *catalog.StoredObject) (string, string, error) {
	key, strategy, err := r.currentKey(ctx, obj)
	return key, strategy, err
}

func (r *Resolver) currentKey(ctx context.Context, obj *catalog.StoredObject) (string, string, error) {
	logger := logging.WithContext(ctx, r.logger)
	for _, strategy := range r.strategies {
		candidate, ok, err := strategy.TryResolve(ctx, obj)
		if err != nil {
			return "", "", services.Wrap(services.ErrTransient, "resolve", strategy.Name(), "", err)
		}
		if !ok {
			continue
		}
		if _, err := r.store.Head(ctx, candidate); err != nil {
			if objectstore.IsNotFound(err) {
				logger.Debug("candidate key does not exist",
					logging.String("strategy", strategy.Name()),
					logging.String("candidate", candidate),
				)
				continue
			}
			return "", "", services.Wrap(services.ErrTransient, "resolve", strategy.Name(), "verify candidate", err)
		}
		return candidate, strategy.Name(), nil
	}
	return "", "", services.Wrap(services.ErrNotFound, "resolve", "chain",
		"no strategy produced an existing key", nil)
}
