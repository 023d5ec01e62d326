package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/geochrs/shophub-admin/internal/storage"
)

// ObjectAPI is the subset of the MinIO client used by the store.
type ObjectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Config holds connection settings for the MinIO-backed asset store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string
	UseSSL    bool
}

// Store implements storage.AssetStore against a MinIO (or any S3-compatible)
// bucket. Objects are addressed by key; the public URL is derived from the
// configured base URL.
type Store struct {
	client  ObjectAPI
	bucket  string
	baseURL string
}

// New creates a MinIO-backed asset store.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return NewWithClient(client, cfg.Bucket, cfg.BaseURL), nil
}

// NewWithClient creates a store around an existing client.
func NewWithClient(client ObjectAPI, bucket, baseURL string) *Store {
	return &Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the asset under its key and returns the resulting handle.
func (s *Store) Upload(ctx context.Context, input *storage.UploadInput) (*storage.Asset, error) {
	opts := minio.PutObjectOptions{ContentType: input.ContentType}

	_, err := s.client.PutObject(ctx, s.bucket, input.Key, input.Data, input.Size, opts)
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", input.Key, err)
	}

	return &storage.Asset{
		RemoteID: input.Key,
		URL:      fmt.Sprintf("%s/%s", s.baseURL, input.Key),
	}, nil
}

// Destroy removes the asset addressed by remoteID.
func (s *Store) Destroy(ctx context.Context, remoteID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, remoteID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", remoteID, err)
	}
	return nil
}
