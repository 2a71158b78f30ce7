package assetstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"studyhub/logger"
)

// LocalStore keeps assets on the local filesystem and serves them under a
// public base URL. Suits single-node deployments; the interface leaves room
// for an object-storage implementation.
type LocalStore struct {
	dir  string
	base string
	log  *logger.Logger
}

func NewLocalStore(dir, baseURL string, log *logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &LocalStore{
		dir:  dir,
		base: strings.TrimSuffix(baseURL, "/"),
		log:  log.With("component", "LocalStore"),
	}, nil
}

var _ Store = (*LocalStore)(nil)

func (s *LocalStore) Put(ctx context.Context, blob io.Reader, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := filepath.Join(sanitizeFolder(folder), uuid.New().String())
	path := filepath.Join(s.dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	if _, err := io.Copy(f, blob); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close asset file: %w", err)
	}

	return s.base + "/" + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	key, ok := strings.CutPrefix(url, s.base+"/")
	if !ok {
		// Foreign URL, nothing we can remove.
		s.log.Warn("skipping delete of foreign asset url", "url", url)
		return nil
	}

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove asset: %w", err)
	}
	return nil
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return "misc"
	}
	return folder
}
