package service

import (
	"context"
	"fmt"
	"strings"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/storage"
)

type GalleryService struct {
	repo     domain.GalleryRepository
	uploader ImageUploader
}

func NewGalleryService(repo domain.GalleryRepository, uploader ImageUploader) *GalleryService {
	return &GalleryService{repo: repo, uploader: uploader}
}

func (s *GalleryService) List(ctx context.Context) ([]domain.GalleryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadErr("list gallery", err)
	}
	return items, nil
}

// Save persists a result. An inline image is uploaded to the generated
// collection first; a URL is stored as is.
func (s *GalleryService) Save(ctx context.Context, result domain.GenerationResult) (domain.GalleryItem, error) {
	if strings.TrimSpace(result.ImageURL) == "" {
		return domain.GalleryItem{}, fmt.Errorf("%w: result has no image", domain.ErrValidation)
	}
	url, err := s.uploader.UploadRef(ctx, storage.CollectionGenerated, result.ImageURL)
	if err != nil {
		return domain.GalleryItem{}, persistenceErr("upload generated image", err)
	}
	result.ImageURL = url
	item, err := s.repo.Create(ctx, result)
	if err != nil {
		return domain.GalleryItem{}, persistenceErr("insert gallery item", err)
	}
	return item, nil
}
