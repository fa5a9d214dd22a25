package workspace

import (
	"fmt"

	"tailorpreview/internal/domain"
)

// Page is the active view of the shop surface.
type Page string

const (
	PageCollections Page = "collections"
	PageDashboard   Page = "dashboard"
	PageCatalog     Page = "catalog"
	PageCustomers   Page = "customers"
	PageStudio      Page = "studio"
	PageGallery     Page = "gallery"
	PageResult      Page = "result"
	PageSettings    Page = "settings"
)

var pages = []Page{PageCollections, PageDashboard, PageCatalog, PageCustomers, PageStudio, PageGallery, PageResult, PageSettings}

func ParsePage(v string) (Page, error) {
	for _, p := range pages {
		if string(p) == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown page %q", domain.ErrValidation, v)
}
