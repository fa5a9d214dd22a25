package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/service"
)

func (a *App) Workspace(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.workspace(r).Snapshot())
}

func (a *App) Navigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page string `json:"page"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.workspace(r).Navigate(req.Page)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"activePage": string(page)})
}

func (a *App) ListCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := a.workspace(r).Catalog(r.URL.Query().Get("folder"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string][]domain.CatalogItem{"items": items})
}

func (a *App) CreateCatalog(w http.ResponseWriter, r *http.Request) {
	var req service.NewGarment
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	item, err := a.workspace(r).AddCatalog(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, item)
}

func (a *App) DeleteCatalog(w http.ResponseWriter, r *http.Request) {
	if err := a.workspace(r).RemoveCatalog(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) ListCustomers(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string][]domain.Customer{"items": a.workspace(r).Customers()})
}

func (a *App) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.NewCustomer
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	customer, err := a.workspace(r).AddCustomer(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, customer)
}

func (a *App) ListGallery(w http.ResponseWriter, r *http.Request) {
	items, err := a.workspace(r).GalleryFolder(r.URL.Query().Get("folder"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string][]domain.GalleryItem{"items": items})
}

func (a *App) CreateGallery(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationResult
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	item, err := a.workspace(r).SaveToGallery(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, item)
}

func (a *App) DownloadGallery(w http.ResponseWriter, r *http.Request) {
	name, img, err := a.workspace(r).GalleryImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.attachment(w, name, img.MIMEType, img.Data)
}
