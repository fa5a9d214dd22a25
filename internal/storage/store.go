package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tailorpreview/internal/media"
)

const (
	CollectionCatalog   = "catalog"
	CollectionCustomers = "customers"
	CollectionGenerated = "generated"
)

// ObjectStore is a blob store with public URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

// NewKey builds `{collection}/{unix-millis}-{random}.jpg`.
func NewKey(collection string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%s/%d-%s.jpg", strings.Trim(collection, "/"), now.UnixMilli(), random)
}

// Uploader normalizes images to JPEG and stores them under generated keys.
type Uploader struct {
	store  ObjectStore
	now    func() time.Time
	maxDim int
}

func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{store: store, now: time.Now, maxDim: media.MaxUploadDimension}
}

// Upload stores data in collection and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, collection string, data []byte) (string, error) {
	jpeg, err := media.NormalizeJPEG(data, u.maxDim)
	if err != nil {
		return "", err
	}
	key := NewKey(collection, u.now())
	if err := u.store.Put(ctx, key, jpeg, "image/jpeg"); err != nil {
		return "", err
	}
	return u.store.URL(key), nil
}

// UploadRef uploads an image reference. Inline data: URLs are decoded and
// stored; anything else is assumed to be a public URL already and is kept.
func (u *Uploader) UploadRef(ctx context.Context, collection, ref string) (string, error) {
	if !media.IsDataURL(ref) {
		return ref, nil
	}
	img, err := media.DecodeDataURL(ref)
	if err != nil {
		return "", err
	}
	return u.Upload(ctx, collection, img.Data)
}
