// Package service validates and persists catalog, customer, gallery and
// profile data. Inputs are validated before any backend call is made.
package service

import (
	"context"
	"fmt"
	"strings"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/media"
)

// ImageUploader stores an image reference under a collection and returns its
// public URL; *storage.Uploader satisfies it.
type ImageUploader interface {
	UploadRef(ctx context.Context, collection, ref string) (string, error)
}

func validImageRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if media.IsDataURL(ref) {
		return true
	}
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

func loadErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDataLoad, op, err)
}
