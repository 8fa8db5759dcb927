package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lifeai-server/internal/model"
)

// MediaStore persists generated media and returns a public URL for it.
type MediaStore interface {
	SaveAudio(name string, data []byte) (string, error)
}

// LocalMediaStore writes media files to a local directory served statically
// by the HTTP server.
type LocalMediaStore struct {
	dir     string
	baseURL string
}

// NewLocalMediaStore creates the store and its directory.
func NewLocalMediaStore(dir, baseURL string) (*LocalMediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir %s: %w", dir, err)
	}
	return &LocalMediaStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir reports the directory static file serving should mount.
func (s *LocalMediaStore) Dir() string {
	return s.dir
}

func (s *LocalMediaStore) SaveAudio(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing audio file: %v", model.ErrStorageFailed, err)
	}
	return s.baseURL + "/" + name, nil
}
