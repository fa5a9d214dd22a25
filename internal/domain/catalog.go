package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one of the fixed garment categories.
type Category string

const (
	CategorySuits      Category = "Suits"
	CategoryCasual     Category = "Casual"
	CategoryStreetwear Category = "Streetwear"
	CategoryFormal     Category = "Formal"
	CategoryDresses    Category = "Dresses"
)

// FolderAll selects every category when filtering; it is never stored.
const FolderAll = "All"

// Categories lists the stored categories in display order.
var Categories = []Category{CategorySuits, CategoryCasual, CategoryStreetwear, CategoryFormal, CategoryDresses}

// NormalizeCategory title-cases the input and checks it against Categories.
// A Caser is stateful, so one is built per call.
func NormalizeCategory(v string) (Category, error) {
	c := Category(cases.Title(language.English).String(strings.TrimSpace(v)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, v)
}

// CatalogItem is a garment in the shop catalog.
type CatalogItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
}

// FilterByFolder keeps the items of one category, or all of them for FolderAll
// and the empty folder.
func FilterByFolder(items []CatalogItem, folder string) ([]CatalogItem, error) {
	return filterFolder(items, folder, func(item CatalogItem) Category { return item.Category })
}

// FilterGalleryByFolder is FilterByFolder keyed on the garment each result
// was generated from.
func FilterGalleryByFolder(items []GalleryItem, folder string) ([]GalleryItem, error) {
	return filterFolder(items, folder, func(item GalleryItem) Category { return item.Garment.Category })
}

func filterFolder[T any](items []T, folder string, category func(T) Category) ([]T, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" || strings.EqualFold(folder, FolderAll) {
		return items, nil
	}
	want, err := NormalizeCategory(folder)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if category(item) == want {
			out = append(out, item)
		}
	}
	return out, nil
}
