package uploads

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"restow/internal/catalog"
	"restow/internal/filecontext"
	"restow/internal/logging"
	"restow/internal/objectstore"
	"restow/internal/pathkey"
	"restow/internal/services"
)

// Upload carries one inbound file's bytes and metadata.
type Upload struct {
	FileName    string
	ContentType string
	ContentHash string
	Size        int64
	Body        io.Reader
}

// Provider names and stores inbound objects. When the request's scope holds a
// FileContext the provider uses it; otherwise it falls back to its own default
// naming under uploads/.
type Provider struct {
	store         objectstore.Store
	catalog       *catalog.Store
	publicBaseURL string
	logger        *slog.Logger
}

// NewProvider constructs a storage provider.
func NewProvider(store objectstore.Store, cat *catalog.Store, publicBaseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		store:         store,
		catalog:       cat,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logging.NewComponentLogger(logger, "provider"),
	}
}

// Store writes one upload to the object store and records it in the catalog.
// The destination key comes from the scope's next entry when one is queued;
// a nil or drained scope yields a default uuid-based name.
func (p *Provider) Store(ctx context.Context, scope *filecontext.Scope, up Upload) (*catalog.StoredObject, error) {
	key := p.nextKey(scope, up.FileName)

	if err := p.store.Put(ctx, key, up.ContentType, up.Body, up.Size); err != nil {
		return nil, services.Wrap(services.ErrTransient, "provider", "put object", "", err)
	}

	logicalName, extension := splitFileName(up.FileName)
	obj, err := p.catalog.CreateObject(ctx, &catalog.StoredObject{
		LogicalName: logicalName,
		Extension:   extension,
		ContentType: up.ContentType,
		ContentHash: up.ContentHash,
		CurrentKey:  key,
		PublicURL:   pathkey.PublicURL(p.publicBaseURL, key),
		SizeBytes:   up.Size,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "provider", "record object", "bytes stored but catalog insert failed", err)
	}

	logging.WithContext(ctx, p.logger).Info("object stored",
		logging.String(logging.FieldKey, key),
		logging.Int64(logging.FieldObjectID, obj.ID),
	)
	return obj, nil
}

func (p *Provider) nextKey(scope *filecontext.Scope, fileName string) string {
	if fc, ok := scope.Next(); ok {
		return path.Join(fc.TargetPath, fc.BaseName)
	}
	_, extension := splitFileName(fileName)
	name := uuid.NewString()
	if extension != "" {
		name += "." + extension
	}
	return path.Join("uploads", name)
}

func splitFileName(fileName string) (logicalName, extension string) {
	clean := pathkey.SanitizeFileName(fileName)
	ext := path.Ext(clean)
	return strings.TrimSuffix(clean, ext), strings.TrimPrefix(ext, ".")
}
