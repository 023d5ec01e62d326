package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/geochrs/shophub-admin/internal/storage"
)

// Store implements storage.AssetStore using an in-memory map. It keeps
// metadata only (no object bytes) and exists for local development and tests.
type Store struct {
	mu      sync.RWMutex
	assets  map[string]string
	baseURL string
}

// New creates a new in-memory asset store.
func New(baseURL string) *Store {
	return &Store{
		assets:  make(map[string]string),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload records the asset and returns its handle.
func (s *Store) Upload(_ context.Context, input *storage.UploadInput) (*storage.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := fmt.Sprintf("%s/%s", s.baseURL, input.Key)
	s.assets[input.Key] = url

	return &storage.Asset{RemoteID: input.Key, URL: url}, nil
}

// Destroy removes the asset by remote id.
func (s *Store) Destroy(_ context.Context, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[remoteID]; !exists {
		return fmt.Errorf("asset not found: %s", remoteID)
	}

	delete(s.assets, remoteID)
	return nil
}

// Has reports whether an asset with the given remote id is stored.
func (s *Store) Has(remoteID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.assets[remoteID]
	return exists
}
