package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geochrs/shophub-admin/internal/storage"
)

type fakeObjectAPI struct {
	putBucket string
	putKey    string
	putType   string
	putErr    error

	removedKey string
	removeErr  error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	f.putBucket = bucketName
	f.putKey = objectName
	f.putType = opts.ContentType
	if f.putErr != nil {
		return miniogo.UploadInfo{}, f.putErr
	}
	return miniogo.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _ string, objectName string, _ miniogo.RemoveObjectOptions) error {
	f.removedKey = objectName
	return f.removeErr
}

func TestStoreUpload(t *testing.T) {
	fake := &fakeObjectAPI{}
	store := NewWithClient(fake, "shophub-media", "https://cdn.example.com/shophub-media/")

	asset, err := store.Upload(context.Background(), &storage.UploadInput{
		Key:         "products/abc123.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Data:        strings.NewReader("fake image bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "products/abc123.jpg", asset.RemoteID)
	assert.Equal(t, "https://cdn.example.com/shophub-media/products/abc123.jpg", asset.URL)
	assert.Equal(t, "shophub-media", fake.putBucket)
	assert.Equal(t, "image/jpeg", fake.putType)
}

func TestStoreUploadError(t *testing.T) {
	fake := &fakeObjectAPI{putErr: errors.New("bucket unavailable")}
	store := NewWithClient(fake, "shophub-media", "https://cdn.example.com/shophub-media")

	asset, err := store.Upload(context.Background(), &storage.UploadInput{
		Key:  "products/abc123.jpg",
		Data: strings.NewReader(""),
	})
	assert.Nil(t, asset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put object products/abc123.jpg")
}

func TestStoreDestroy(t *testing.T) {
	fake := &fakeObjectAPI{}
	store := NewWithClient(fake, "shophub-media", "https://cdn.example.com/shophub-media")

	err := store.Destroy(context.Background(), "products/abc123.jpg")
	require.NoError(t, err)
	assert.Equal(t, "products/abc123.jpg", fake.removedKey)
}

func TestStoreDestroyError(t *testing.T) {
	fake := &fakeObjectAPI{removeErr: errors.New("access denied")}
	store := NewWithClient(fake, "shophub-media", "https://cdn.example.com/shophub-media")

	err := store.Destroy(context.Background(), "products/abc123.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove object products/abc123.jpg")
}
