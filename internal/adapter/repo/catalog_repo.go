package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/sqlinline"
)

// CatalogRepositoryPG implements domain.CatalogRepository backed by PostgreSQL.
type CatalogRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCatalogRepository creates a new CatalogRepositoryPG.
func NewCatalogRepository(sql infra.SQLExecutor) *CatalogRepositoryPG {
	return &CatalogRepositoryPG{sql: sql}
}

// List returns every catalog item, newest first.
func (r *CatalogRepositoryPG) List(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCatalog)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create inserts an item whose image has already been uploaded.
func (r *CatalogRepositoryPG) Create(ctx context.Context, item domain.CatalogItem) (domain.CatalogItem, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCatalog, item.Title, string(item.Category), item.ImageURL, tags)
	return scanCatalogItem(row)
}

// Delete removes an item by id.
func (r *CatalogRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteCatalog, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCatalogItem(row pgx.Row) (domain.CatalogItem, error) {
	var (
		item     domain.CatalogItem
		category string
	)
	if err := row.Scan(&item.ID, &item.Title, &category, &item.ImageURL, &item.Tags); err != nil {
		if infra.IsNoRows(err) {
			return domain.CatalogItem{}, domain.ErrNotFound
		}
		return domain.CatalogItem{}, err
	}
	item.Category = domain.Category(category)
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

var _ domain.CatalogRepository = (*CatalogRepositoryPG)(nil)
