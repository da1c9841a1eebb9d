package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrKeyNotFound indicates the requested key does not exist in the store.
var ErrKeyNotFound = errors.New("object key not found")

// ObjectInfo describes a stored object as reported by the backend.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// Page is one page of a bucket listing. NextToken is empty when the listing
// is exhausted; otherwise pass it to the next List call to continue.
type Page struct {
	Objects   []ObjectInfo
	NextToken string
}

// Store is the object store backend interface.
//
// Keys are hierarchical string paths ("/" separated). All operations are
// context-aware network calls with no assumption of immediate completion, and
// implementations must be safe for concurrent use.
type Store interface {
	// Head reports metadata for a key, or ErrKeyNotFound if it is absent.
	Head(ctx context.Context, key string) (ObjectInfo, error)

	// Copy duplicates src to dst, setting contentType on the destination
	// explicitly rather than inheriting whatever the source carries.
	Copy(ctx context.Context, src, dst, contentType string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Put writes size bytes from reader at key with the given content type.
	Put(ctx context.Context, key, contentType string, reader io.Reader, size int64) error

	// List returns up to max objects under prefix, resuming from token.
	List(ctx context.Context, prefix, token string, max int) (Page, error)
}

// IsNotFound reports whether err indicates a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}
