// Package media handles image uploads for the catalog and content entities:
// manufacturer logos, post covers, before/after work photos.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
)

// BlobStore is the object-storage capability the uploader needs. The s3
// adapter satisfies it.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// DefaultMaxSize bounds uploads to 10 MiB.
const DefaultMaxSize = 10 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload is the result of a stored image.
type Upload struct {
	Key         string
	URL         string
	ContentType string
	Size        int
}

// Uploader validates image payloads and stores them under
// collision-resistant keys.
type Uploader struct {
	store   BlobStore
	log     logger.Logger
	maxSize int
	newID   func() string
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithMaxSize overrides the upload size limit in bytes.
func WithMaxSize(n int) UploaderOption {
	return func(u *Uploader) { u.maxSize = n }
}

// WithKeyGenerator overrides the random key segment source. Intended for
// tests.
func WithKeyGenerator(newID func() string) UploaderOption {
	return func(u *Uploader) { u.newID = newID }
}

// NewUploader creates an uploader on top of a blob store.
func NewUploader(store BlobStore, log logger.Logger, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		store:   store,
		log:     log,
		maxSize: DefaultMaxSize,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload sniffs the payload type, validates it is a supported image within
// the size limit, and stores it under folder/<uuid><ext>. The original file
// name contributes nothing to the key, so uploads never collide or overwrite.
func (u *Uploader) Upload(ctx context.Context, folder string, data []byte) (*Upload, error) {
	if len(data) == 0 {
		return nil, errors.New("upload is empty")
	}
	if len(data) > u.maxSize {
		return nil, fmt.Errorf("upload of %d bytes exceeds limit of %d", len(data), u.maxSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "uploads"
	}
	key := path.Join(folder, u.newID()+ext)

	url, err := u.store.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}
	u.log.Info("image uploaded", "key", key, "size", len(data))
	return &Upload{Key: key, URL: url, ContentType: contentType, Size: len(data)}, nil
}

// Remove deletes a previously uploaded object by key.
func (u *Uploader) Remove(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key is required")
	}
	return u.store.Delete(ctx, key)
}
