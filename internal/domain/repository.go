package domain

import "context"

// ProfileRepository reads and updates profile rows.
type ProfileRepository interface {
	RoleByID(ctx context.Context, id string) (Role, error)
	SetRole(ctx context.Context, id string, role Role) error
	List(ctx context.Context) ([]Profile, error)
}

// CatalogRepository persists catalog rows. Lists are newest-first.
type CatalogRepository interface {
	List(ctx context.Context) ([]CatalogItem, error)
	Create(ctx context.Context, item CatalogItem) (CatalogItem, error)
	Delete(ctx context.Context, id string) error
}

// CustomerRepository persists customer rows. Lists are newest-first.
type CustomerRepository interface {
	List(ctx context.Context) ([]Customer, error)
	Create(ctx context.Context, customer Customer) (Customer, error)
}

// GalleryRepository persists gallery rows. Lists are newest-first.
type GalleryRepository interface {
	List(ctx context.Context) ([]GalleryItem, error)
	Create(ctx context.Context, result GenerationResult) (GalleryItem, error)
}
