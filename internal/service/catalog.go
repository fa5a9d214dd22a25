package service

import (
	"context"
	"fmt"
	"strings"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/storage"
)

// NewGarment is the input for adding a catalog item. Image is a data: URL or
// an http(s) URL.
type NewGarment struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
}

func (g NewGarment) validate() (domain.Category, error) {
	if strings.TrimSpace(g.Title) == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(g.Image) == "" {
		return "", fmt.Errorf("%w: image is required", domain.ErrValidation)
	}
	if !validImageRef(g.Image) {
		return "", fmt.Errorf("%w: image must be a data: or http(s) URL", domain.ErrValidation)
	}
	return domain.NormalizeCategory(g.Category)
}

type CatalogService struct {
	repo     domain.CatalogRepository
	uploader ImageUploader
}

func NewCatalogService(repo domain.CatalogRepository, uploader ImageUploader) *CatalogService {
	return &CatalogService{repo: repo, uploader: uploader}
}

// List returns the catalog, optionally narrowed to one folder.
func (s *CatalogService) List(ctx context.Context, folder string) ([]domain.CatalogItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadErr("list catalog", err)
	}
	return domain.FilterByFolder(items, folder)
}

// Add uploads the garment image and inserts the item. Tags default to the
// category.
func (s *CatalogService) Add(ctx context.Context, in NewGarment) (domain.CatalogItem, error) {
	category, err := in.validate()
	if err != nil {
		return domain.CatalogItem{}, err
	}
	url, err := s.uploader.UploadRef(ctx, storage.CollectionCatalog, in.Image)
	if err != nil {
		return domain.CatalogItem{}, persistenceErr("upload garment image", err)
	}
	item, err := s.repo.Create(ctx, domain.CatalogItem{
		Title:    strings.TrimSpace(in.Title),
		Category: category,
		ImageURL: url,
		Tags:     normalizeTags(in.Tags, category),
	})
	if err != nil {
		return domain.CatalogItem{}, persistenceErr("insert catalog item", err)
	}
	return item, nil
}

func (s *CatalogService) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return persistenceErr("delete catalog item", err)
	}
	return nil
}

func normalizeTags(tags []string, category domain.Category) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return []string{string(category)}
	}
	return out
}
