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

// CustomerRepositoryPG implements domain.CustomerRepository backed by PostgreSQL.
type CustomerRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCustomerRepository creates a new CustomerRepositoryPG.
func NewCustomerRepository(sql infra.SQLExecutor) *CustomerRepositoryPG {
	return &CustomerRepositoryPG{sql: sql}
}

// List returns every customer, newest first.
func (r *CustomerRepositoryPG) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Create inserts a customer whose photo has already been uploaded.
func (r *CustomerRepositoryPG) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	var measurements []byte
	if customer.Measurements != nil {
		raw, err := json.Marshal(customer.Measurements)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("encode measurements: %w", err)
		}
		measurements = raw
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCustomer, customer.Name, customer.Email, customer.PhotoURL, measurements)
	return scanCustomer(row)
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var (
		c   domain.Customer
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PhotoURL, &raw); err != nil {
		if infra.IsNoRows(err) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, err
	}
	if len(raw) > 0 && string(raw) != "null" {
		var m domain.Measurements
		if err := json.Unmarshal(raw, &m); err != nil {
			return domain.Customer{}, fmt.Errorf("decode measurements: %w", err)
		}
		c.Measurements = &m
	}
	return c, nil
}

var _ domain.CustomerRepository = (*CustomerRepositoryPG)(nil)
