package reconciler

import (
	"log/slog"

	"restow/internal/catalog"
	"restow/internal/logging"
	"restow/internal/relocate"
	"restow/internal/resolve"
)

// Reconciler drives the batch passes: relocation (4-step move of every
// misplaced object to its canonical key) and catalog hygiene (removal of
// corrupt link rows). It runs as a single sequential driver; no two
// relocations of the same object can ever be in flight.
type Reconciler struct {
	catalog       *catalog.Store
	resolver      *resolve.Resolver
	executor      *relocate.Executor
	publicBaseURL string
	logger        *slog.Logger
}

// New constructs a reconciler over the given collaborators.
func New(cat *catalog.Store, resolver *resolve.Resolver, executor *relocate.Executor, publicBaseURL string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		catalog:       cat,
		resolver:      resolver,
		executor:      executor,
		publicBaseURL: publicBaseURL,
		logger:        logging.NewComponentLogger(logger, "reconciler"),
	}
}
