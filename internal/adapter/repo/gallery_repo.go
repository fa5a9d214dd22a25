package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/sqlinline"
)

// GalleryRepositoryPG implements domain.GalleryRepository backed by PostgreSQL.
// Customer and garment are stored as jsonb snapshots taken at save time.
type GalleryRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewGalleryRepository creates a new GalleryRepositoryPG.
func NewGalleryRepository(sql infra.SQLExecutor) *GalleryRepositoryPG {
	return &GalleryRepositoryPG{sql: sql}
}

// List returns every gallery item, newest first. Instructions are not stored.
func (r *GalleryRepositoryPG) List(ctx context.Context) ([]domain.GalleryItem, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListGallery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.GalleryItem
	for rows.Next() {
		item, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create inserts a result whose image is already a public URL. The returned
// item carries the caller's instructions since the table has no column for them.
func (r *GalleryRepositoryPG) Create(ctx context.Context, result domain.GenerationResult) (domain.GalleryItem, error) {
	customer, err := json.Marshal(result.Customer)
	if err != nil {
		return domain.GalleryItem{}, fmt.Errorf("encode customer: %w", err)
	}
	garment, err := json.Marshal(result.Garment)
	if err != nil {
		return domain.GalleryItem{}, fmt.Errorf("encode garment: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertGallery, result.ImageURL, result.Confidence, customer, garment)
	item, err := scanGalleryItem(row)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	item.Instructions = result.Instructions
	return item, nil
}

func scanGalleryItem(row pgx.Row) (domain.GalleryItem, error) {
	var (
		item              domain.GalleryItem
		customer, garment []byte
	)
	if err := row.Scan(&item.ID, &item.ImageURL, &item.Confidence, &customer, &garment, &item.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.GalleryItem{}, domain.ErrNotFound
		}
		return domain.GalleryItem{}, err
	}
	if len(customer) > 0 {
		if err := json.Unmarshal(customer, &item.Customer); err != nil {
			return domain.GalleryItem{}, fmt.Errorf("decode customer_data: %w", err)
		}
	}
	if len(garment) > 0 {
		if err := json.Unmarshal(garment, &item.Garment); err != nil {
			return domain.GalleryItem{}, fmt.Errorf("decode garment_data: %w", err)
		}
	}
	return item, nil
}

var _ domain.GalleryRepository = (*GalleryRepositoryPG)(nil)
