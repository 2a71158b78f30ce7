package assetstore

import (
	"context"
	"io"
)

// Store holds course media: thumbnails and sub-section videos, addressed by
// URL. Implementations are best-effort collaborators; callers decide whether
// a failed delete is fatal.
type Store interface {
	// Put writes a blob under the folder hint and returns its public URL.
	Put(ctx context.Context, blob io.Reader, folder string) (string, error)
	// Delete removes the asset behind url. An empty or unknown URL is a
	// no-op, not an error.
	Delete(ctx context.Context, url string) error
}
