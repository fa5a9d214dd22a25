package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/sqlinline"
)

func TestProfileRoleByID(t *testing.T) {
	tests := []struct {
		name    string
		exec    *stubExecutor
		want    domain.Role
		wantErr error
	}{
		{name: "admin", exec: &stubExecutor{row: []any{"admin"}}, want: domain.RoleAdmin},
		{name: "shop", exec: &stubExecutor{row: []any{"shop"}}, want: domain.RoleShop},
		{name: "missing row", exec: &stubExecutor{}, wantErr: domain.ErrNotFound},
		{name: "backend error", exec: &stubExecutor{err: errors.New("conn reset")}},
		{name: "unknown role", exec: &stubExecutor{row: []any{"owner"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			role, err := NewProfileRepository(tc.exec).RoleByID(context.Background(), "u1")
			if tc.want != "" {
				if err != nil || role != tc.want {
					t.Fatalf("RoleByID() = %q, %v; want %q", role, err, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("RoleByID() expected error, got role %q", role)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("RoleByID() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestProfileList(t *testing.T) {
	now := time.Now()
	exec := &stubExecutor{rows: [][]any{
		{"p2", "admin", "HQ", now},
		{"p1", "shop", "", now.Add(-time.Hour)},
	}}
	profiles, err := NewProfileRepository(exec).List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(profiles) != 2 || profiles[0].Role != domain.RoleAdmin || profiles[1].ID != "p1" {
		t.Fatalf("List() = %+v", profiles)
	}
	if exec.calls[0].query != sqlinline.QListProfiles {
		t.Fatal("List() used an unexpected query")
	}
}

func TestCatalogCreateDefaultsTags(t *testing.T) {
	exec := &stubExecutor{row: []any{"g1", "Navy Suit", "Suits", "https://cdn/catalog/1.jpg", []string(nil)}}
	item, err := NewCatalogRepository(exec).Create(context.Background(), domain.CatalogItem{
		Title:    "Navy Suit",
		Category: domain.CategorySuits,
		ImageURL: "https://cdn/catalog/1.jpg",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if item.ID != "g1" || item.Category != domain.CategorySuits {
		t.Fatalf("Create() = %+v", item)
	}
	if item.Tags == nil {
		t.Fatal("expected non-nil tags")
	}
	args := exec.calls[0].args
	if tags, ok := args[3].([]string); !ok || tags == nil {
		t.Fatalf("expected empty tag slice argument, got %#v", args[3])
	}
}

func TestCatalogDelete(t *testing.T) {
	repo := NewCatalogRepository(&stubExecutor{affected: 1})
	if err := repo.Delete(context.Background(), "g1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	repo = NewCatalogRepository(&stubExecutor{affected: 0})
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestCustomerMeasurementsRoundTrip(t *testing.T) {
	exec := &stubExecutor{row: []any{"c1", "Jane", "customer@example.com", "https://cdn/customers/1.jpg", []byte(`{"height":"170cm","waist":"70cm"}`)}}
	c, err := NewCustomerRepository(exec).Create(context.Background(), domain.Customer{
		Name:         "Jane",
		Email:        "customer@example.com",
		PhotoURL:     "https://cdn/customers/1.jpg",
		Measurements: &domain.Measurements{Height: "170cm", Waist: "70cm"},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if c.Measurements == nil || c.Measurements.Height != "170cm" {
		t.Fatalf("Create() measurements = %+v", c.Measurements)
	}
	raw, ok := exec.calls[0].args[3].([]byte)
	if !ok || !strings.Contains(string(raw), `"waist":"70cm"`) {
		t.Fatalf("unexpected measurements argument %#v", exec.calls[0].args[3])
	}
}

func TestCustomerListWithoutMeasurements(t *testing.T) {
	exec := &stubExecutor{rows: [][]any{{"c1", "Jane", "", "https://cdn/customers/1.jpg", nil}}}
	customers, err := NewCustomerRepository(exec).List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(customers) != 1 || customers[0].Measurements != nil {
		t.Fatalf("List() = %+v", customers)
	}
}

func TestGalleryCreateKeepsInstructions(t *testing.T) {
	customer, _ := json.Marshal(domain.Customer{ID: "c1", Name: "Jane"})
	garment, _ := json.Marshal(domain.CatalogItem{ID: "g1", Title: "Navy Suit"})
	created := time.Now()
	exec := &stubExecutor{row: []any{"r1", "https://cdn/generated/1.jpg", 0.91, customer, garment, created}}

	item, err := NewGalleryRepository(exec).Create(context.Background(), domain.GenerationResult{
		ImageURL:     "https://cdn/generated/1.jpg",
		Confidence:   0.91,
		Customer:     domain.Customer{ID: "c1", Name: "Jane"},
		Garment:      domain.CatalogItem{ID: "g1", Title: "Navy Suit"},
		Instructions: "tuck the shirt",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if item.ID != "r1" || item.Customer.Name != "Jane" || item.Garment.Title != "Navy Suit" {
		t.Fatalf("Create() = %+v", item)
	}
	if item.Instructions != "tuck the shirt" {
		t.Fatalf("Instructions = %q", item.Instructions)
	}
}

func TestGalleryListPropagatesQueryError(t *testing.T) {
	_, err := NewGalleryRepository(&stubExecutor{err: pgx.ErrTxClosed}).List(context.Background())
	if !errors.Is(err, pgx.ErrTxClosed) {
		t.Fatalf("List() error = %v", err)
	}
}
