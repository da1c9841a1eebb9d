package resolve

import (
	"context"
	"net/url"
	"strings"

	"restow/internal/catalog"
	"restow/internal/objectstore"
)

// Strategy produces a candidate key for an object's current location.
// A candidate is only that: the resolver HEAD-verifies every candidate before
// trusting it, so strategies never need to check existence themselves.
type Strategy interface {
	Name() string
	TryResolve(ctx context.Context, obj *catalog.StoredObject) (key string, ok bool, err error)
}

// metadataStrategy trusts the explicit key recorded on the object.
type metadataStrategy struct{}

func (metadataStrategy) Name() string { return "metadata" }

func (metadataStrategy) TryResolve(_ context.Context, obj *catalog.StoredObject) (string, bool, error) {
	key := strings.TrimSpace(obj.CurrentKey)
	return key, key != "", nil
}

// urlStrategy recovers the key from the object's recorded public URL, which
// encodes the key as the path under the configured public base URL.
type urlStrategy struct {
	baseURL string
}

func (urlStrategy) Name() string { return "public-url" }

func (s urlStrategy) TryResolve(_ context.Context, obj *catalog.StoredObject) (string, bool, error) {
	publicURL := strings.TrimSpace(obj.PublicURL)
	if s.baseURL == "" || publicURL == "" {
		return "", false, nil
	}
	if !strings.HasPrefix(publicURL, s.baseURL+"/") {
		return "", false, nil
	}
	escaped := strings.TrimPrefix(publicURL, s.baseURL+"/")
	key, err := url.PathUnescape(escaped)
	if err != nil {
		// A malformed URL is a dead end for this strategy, not a failure.
		return "", false, nil
	}
	return key, key != "", nil
}

// hashStrategy reconstructs the legacy flat naming convention: objects were
// once stored at the bucket root as "<contentHash><ext>".
type hashStrategy struct{}

func (hashStrategy) Name() string { return "hash-convention" }

func (hashStrategy) TryResolve(_ context.Context, obj *catalog.StoredObject) (string, bool, error) {
	hash := strings.TrimSpace(obj.ContentHash)
	if hash == "" {
		return "", false, nil
	}
	if ext := strings.TrimSpace(obj.Extension); ext != "" {
		return hash + "." + strings.ToLower(ext), true, nil
	}
	return hash, true, nil
}

// listingStrategy is the last resort: walk the bucket listing, capped at
// scanCap objects, looking for a key that contains the content hash.
type listingStrategy struct {
	store    objectstore.Store
	pageSize int
	scanCap  int
}

func (listingStrategy) Name() string { return "listing-scan" }

func (s listingStrategy) TryResolve(ctx context.Context, obj *catalog.StoredObject) (string, bool, error) {
	hash := strings.TrimSpace(obj.ContentHash)
	if hash == "" {
		return "", false, nil
	}

	seen := 0
	token := ""
	for seen < s.scanCap {
		remaining := s.scanCap - seen
		max := s.pageSize
		if max > remaining {
			max = remaining
		}
		page, err := s.store.List(ctx, "", token, max)
		if err != nil {
			return "", false, err
		}
		for _, entry := range page.Objects {
			if strings.Contains(entry.Key, hash) {
				return entry.Key, true, nil
			}
		}
		seen += len(page.Objects)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	return "", false, nil
}
