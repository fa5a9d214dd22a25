package domain

import (
	"errors"
	"testing"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "suits", want: CategorySuits},
		{in: "  STREETWEAR ", want: CategoryStreetwear},
		{in: "Dresses", want: CategoryDresses},
		{in: "All", wantErr: true},
		{in: "hats", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeCategory(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NormalizeCategory(%q) error = %v, want ErrValidation", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeCategory(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFilterByFolder(t *testing.T) {
	items := []CatalogItem{
		{ID: "1", Category: CategorySuits},
		{ID: "2", Category: CategoryCasual},
		{ID: "3", Category: CategorySuits},
	}
	all, err := FilterByFolder(items, "All")
	if err != nil || len(all) != 3 {
		t.Fatalf("FilterByFolder(All) = %d items, err %v", len(all), err)
	}
	suits, err := FilterByFolder(items, "suits")
	if err != nil {
		t.Fatalf("FilterByFolder(suits) error: %v", err)
	}
	if len(suits) != 2 || suits[0].ID != "1" || suits[1].ID != "3" {
		t.Fatalf("FilterByFolder(suits) = %+v", suits)
	}
	if _, err := FilterByFolder(items, "hats"); err == nil {
		t.Fatal("expected error for unknown folder")
	}
}

func TestFilterGalleryByFolder(t *testing.T) {
	items := []GalleryItem{
		{ID: "a", GenerationResult: GenerationResult{Garment: CatalogItem{Category: CategoryDresses}}},
		{ID: "b", GenerationResult: GenerationResult{Garment: CatalogItem{Category: CategorySuits}}},
	}
	for _, folder := range []string{"", "all"} {
		if got, err := FilterGalleryByFolder(items, folder); err != nil || len(got) != 2 {
			t.Fatalf("FilterGalleryByFolder(%q) = %d items, err %v", folder, len(got), err)
		}
	}
	got, err := FilterGalleryByFolder(items, "Dresses")
	if err != nil || len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("FilterGalleryByFolder(Dresses) = %+v, %v", got, err)
	}
	if _, err := FilterGalleryByFolder(items, "hats"); !errors.Is(err, ErrValidation) {
		t.Fatalf("FilterGalleryByFolder(hats) error = %v, want ErrValidation", err)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Fatalf("ParseRole(Admin) = %q, %v", r, ok)
	}
	if r, ok := ParseRole("shop"); !ok || r != RoleShop {
		t.Fatalf("ParseRole(shop) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatal("ParseRole(superuser) should fail")
	}
}

func TestCountProfiles(t *testing.T) {
	counts := CountProfiles([]Profile{{Role: RoleAdmin}, {Role: RoleShop}, {Role: RoleShop}, {Role: "weird"}})
	if counts.Total != 4 || counts.Admin != 1 || counts.Shop != 3 {
		t.Fatalf("CountProfiles() = %+v", counts)
	}
}

func TestJobConfigValidate(t *testing.T) {
	jane := &Customer{ID: "c1", Name: "Jane", PhotoURL: "https://img/jane.jpg"}
	tests := []struct {
		name    string
		cfg     JobConfig
		wantErr bool
	}{
		{name: "valid", cfg: JobConfig{Customer: jane, Garments: []CatalogItem{{ID: "g1"}}}},
		{name: "no customer", cfg: JobConfig{Garments: []CatalogItem{{ID: "g1"}}}, wantErr: true},
		{name: "empty customer", cfg: JobConfig{Customer: &Customer{}, Garments: []CatalogItem{{ID: "g1"}}}, wantErr: true},
		{name: "no garments", cfg: JobConfig{Customer: jane}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidJob) {
				t.Fatalf("Validate() error = %v, want ErrInvalidJob", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}
