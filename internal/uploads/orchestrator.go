package uploads

import (
	"context"
	"log/slog"
	"path"

	"restow/internal/catalog"
	"restow/internal/filecontext"
	"restow/internal/logging"
	"restow/internal/pathkey"
	"restow/internal/services"
)

// Orchestrator computes destination paths for a validated write and hands the
// files to the storage provider. It establishes every FileContext on the
// request's scope, in upload order, before the first byte moves.
type Orchestrator struct {
	catalog  *catalog.Store
	provider *Provider
	logger   *slog.Logger
}

// NewOrchestrator constructs an upload orchestrator.
func NewOrchestrator(cat *catalog.Store, provider *Provider, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalog:  cat,
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "orchestrator"),
	}
}

// Stage stores the uploads for one entity slot. The entity's lineage decides
// the canonical folder; existing links on the slot are replaced by links to
// the new objects.
func (o *Orchestrator) Stage(ctx context.Context, scope *filecontext.Scope, entityID int64, slotName string, files []Upload) ([]*catalog.StoredObject, error) {
	lineage, err := o.catalog.Lineage(ctx, entityID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "orchestrator", "load lineage", "", err)
	}
	if lineage == nil {
		return nil, services.Wrap(services.ErrValidation, "orchestrator", "load lineage", "entity does not exist", nil)
	}

	for _, file := range files {
		target := pathkey.BuildTargetKey(lineage, file.FileName)
		scope.Establish(filecontext.FileContext{
			TargetPath: path.Dir(target),
			BaseName:   path.Base(target),
		})
	}

	existing, err := o.catalog.LinksForSlot(ctx, entityID, slotName)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "orchestrator", "load slot links", "", err)
	}

	stored := make([]*catalog.StoredObject, 0, len(files))
	for _, file := range files {
		obj, err := o.provider.Store(ctx, scope, file)
		if err != nil {
			return stored, err
		}
		if _, err := o.catalog.CreateLink(ctx, obj.ID, entityID, slotName); err != nil {
			return stored, services.Wrap(services.ErrTransient, "orchestrator", "link object", "", err)
		}
		stored = append(stored, obj)
	}

	// The slot's previous occupants are detached only after the new objects
	// are durably stored and linked; a crash mid-way leaves transient
	// duplicates for the hygiene pass rather than an empty slot.
	for _, link := range existing {
		if _, err := o.catalog.DeleteLink(ctx, link.ID); err != nil {
			logging.WithContext(ctx, o.logger).Warn("failed to detach replaced slot link",
				logging.Int64("link_id", link.ID), logging.Error(err))
		}
	}

	return stored, nil
}
