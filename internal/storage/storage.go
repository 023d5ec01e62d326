package storage

import (
	"context"
	"io"
)

// AssetStore defines the interface for product image asset operations.
type AssetStore interface {
	// Upload stores an asset and returns its remote id and public URL.
	Upload(ctx context.Context, input *UploadInput) (*Asset, error)

	// Destroy removes an asset by its remote id.
	Destroy(ctx context.Context, remoteID string) error
}

// UploadInput holds the parameters for uploading an asset.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Asset is the handle of a stored object: the store's identifier plus the
// public URL it is served from.
type Asset struct {
	RemoteID string
	URL      string
}
