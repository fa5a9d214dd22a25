// Package workspace owns the state of one shop user's session: the loaded
// lists, the job progress, the current result and the active page. Callers
// mutate it only through its commands and read it through snapshots.
package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/download"
	"tailorpreview/internal/imagegen"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/media"
	"tailorpreview/internal/orchestrator"
	"tailorpreview/internal/service"
)

type CatalogStore interface {
	List(ctx context.Context, folder string) ([]domain.CatalogItem, error)
	Add(ctx context.Context, in service.NewGarment) (domain.CatalogItem, error)
	Remove(ctx context.Context, id string) error
}

type CustomerStore interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Add(ctx context.Context, in service.NewCustomer) (domain.Customer, error)
}

type GalleryStore interface {
	List(ctx context.Context) ([]domain.GalleryItem, error)
	Save(ctx context.Context, result domain.GenerationResult) (domain.GalleryItem, error)
}

// Editor applies edits to a result image; *imagegen.Client satisfies it.
type Editor interface {
	Edit(ctx context.Context, imageRef, instruction string) (imagegen.Result, error)
}

// PromptSource resolves the system prompt for a user; *settings.Service
// satisfies it.
type PromptSource interface {
	SystemPrompt(ctx context.Context, userID string) string
}

// Deps are shared by every workspace.
type Deps struct {
	Catalog    CatalogStore
	Customers  CustomerStore
	Gallery    GalleryStore
	Generator  orchestrator.Generator
	Editor     Editor
	Prompts    PromptSource
	Images     download.ImageLoader
	ResetDelay time.Duration
	AfterFunc  func(d time.Duration, f func())
	Logger     zerolog.Logger
	Metrics    *infra.Metrics
}

// Result is the result detail view. ImageURL tracks edits while
// OriginalImageURL keeps the generated image.
type Result struct {
	domain.GenerationResult
	OriginalImageURL string `json:"originalImageUrl"`
	Saved            bool   `json:"saved"`
}

type Snapshot struct {
	Catalog    []domain.CatalogItem   `json:"catalog"`
	Customers  []domain.Customer      `json:"customers"`
	Gallery    []domain.GalleryItem   `json:"gallery"`
	Processing domain.ProcessingState `json:"processingState"`
	Result     *Result                `json:"generationResult"`
	Page       Page                   `json:"activePage"`
	Loading    bool                   `json:"isLoadingData"`
	Downloads  []download.Entry       `json:"downloads"`
}

type Workspace struct {
	userID string
	deps   Deps
	logger zerolog.Logger
	orch   *orchestrator.Orchestrator
	tray   *download.Tray
	now    func() time.Time

	mu        sync.RWMutex
	catalog   []domain.CatalogItem
	customers []domain.Customer
	gallery   []domain.GalleryItem
	result    *Result
	page      Page
	loading   bool
	loaded    bool
	firstLoad singleflight.Group
}

func New(userID string, deps Deps) *Workspace {
	w := &Workspace{
		userID: userID,
		deps:   deps,
		logger: deps.Logger.With().Str("user_id", userID).Logger(),
		tray:   download.NewTray(deps.Images),
		now:    time.Now,
		page:   PageCollections,
	}
	w.orch = orchestrator.New(deps.Generator, w, w.tray, orchestrator.Options{
		ResetDelay:     deps.ResetDelay,
		SystemPrompt:   w.systemPrompt,
		OnStart:        w.tray.Reset,
		OnSingleResult: w.stageResult,
		OnNavigate:     func() { w.setPage(PageResult) },
		AfterFunc:      deps.AfterFunc,
		Logger:         w.logger,
		Metrics:        deps.Metrics,
	})
	return w
}

func (w *Workspace) UserID() string { return w.userID }

func (w *Workspace) systemPrompt(ctx context.Context) string {
	if w.deps.Prompts == nil {
		return ""
	}
	return w.deps.Prompts.SystemPrompt(ctx, w.userID)
}

// Load fetches catalog, customers and gallery concurrently. The lists are
// replaced only when all three succeed; otherwise they are left empty and
// the error is logged and returned. Items added locally while the fetch was
// in flight are kept ahead of the fetched ones in both cases.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	w.loading = true
	w.mu.Unlock()

	var (
		catalog   []domain.CatalogItem
		customers []domain.Customer
		gallery   []domain.GalleryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog, err = w.deps.Catalog.List(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		customers, err = w.deps.Customers.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		gallery, err = w.deps.Gallery.List(gctx)
		return err
	})
	err := g.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	w.loaded = true
	if err != nil {
		catalog, customers, gallery = nil, nil, nil
	}
	w.catalog = keepLocal(w.catalog, catalog, func(c domain.CatalogItem) string { return c.ID })
	w.customers = keepLocal(w.customers, customers, func(c domain.Customer) string { return c.ID })
	w.gallery = keepLocal(w.gallery, gallery, func(g domain.GalleryItem) string { return g.ID })
	if err != nil {
		w.logger.Error().Err(err).Msg("workspace: initial load failed")
		return fmt.Errorf("%w: %w", domain.ErrDataLoad, err)
	}
	w.logger.Debug().Int("catalog", len(catalog)).Int("customers", len(customers)).Int("gallery", len(gallery)).Msg("workspace: loaded")
	return nil
}

// keepLocal returns the local entries missing from fetched, in their local
// order, followed by fetched.
func keepLocal[T any](local, fetched []T, id func(T) string) []T {
	if len(local) == 0 {
		return fetched
	}
	seen := make(map[string]bool, len(fetched))
	for _, v := range fetched {
		seen[id(v)] = true
	}
	out := make([]T, 0, len(local)+len(fetched))
	for _, v := range local {
		if !seen[id(v)] {
			out = append(out, v)
		}
	}
	return append(out, fetched...)
}

// EnsureLoaded runs Load once. Concurrent first callers share that load and
// return when it finishes. Load errors are already logged and do not block
// the workspace.
func (w *Workspace) EnsureLoaded(ctx context.Context) {
	w.mu.RLock()
	loaded := w.loaded
	w.mu.RUnlock()
	if loaded {
		return
	}
	_, _, _ = w.firstLoad.Do("load", func() (any, error) {
		w.mu.RLock()
		done := w.loaded
		w.mu.RUnlock()
		if done {
			return nil, nil
		}
		return nil, w.Load(ctx)
	})
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	snap := Snapshot{
		Catalog:    append([]domain.CatalogItem{}, w.catalog...),
		Customers:  append([]domain.Customer{}, w.customers...),
		Gallery:    append([]domain.GalleryItem{}, w.gallery...),
		Processing: w.orch.State(),
		Page:       w.page,
		Loading:    w.loading,
		Downloads:  w.tray.Entries(),
	}
	if w.result != nil {
		r := *w.result
		snap.Result = &r
	}
	return snap
}

// Catalog returns the loaded catalog narrowed to folder.
func (w *Workspace) Catalog(folder string) ([]domain.CatalogItem, error) {
	w.mu.RLock()
	items := append([]domain.CatalogItem{}, w.catalog...)
	w.mu.RUnlock()
	return domain.FilterByFolder(items, folder)
}

func (w *Workspace) Customers() []domain.Customer {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Customer{}, w.customers...)
}

func (w *Workspace) Gallery() []domain.GalleryItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.GalleryItem{}, w.gallery...)
}

// GalleryFolder is Gallery narrowed to one garment category.
func (w *Workspace) GalleryFolder(folder string) ([]domain.GalleryItem, error) {
	return domain.FilterGalleryByFolder(w.Gallery(), folder)
}

func (w *Workspace) AddCatalog(ctx context.Context, in service.NewGarment) (domain.CatalogItem, error) {
	item, err := w.deps.Catalog.Add(ctx, in)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	w.mu.Lock()
	w.catalog = append([]domain.CatalogItem{item}, w.catalog...)
	w.mu.Unlock()
	return item, nil
}

// RemoveCatalog drops the item locally before the backend delete and puts
// it back if the delete fails.
func (w *Workspace) RemoveCatalog(ctx context.Context, id string) error {
	w.mu.Lock()
	index := -1
	var removed domain.CatalogItem
	for i, item := range w.catalog {
		if item.ID == id {
			index, removed = i, item
			w.catalog = append(w.catalog[:i:i], w.catalog[i+1:]...)
			break
		}
	}
	w.mu.Unlock()

	if err := w.deps.Catalog.Remove(ctx, id); err != nil {
		if index >= 0 {
			w.mu.Lock()
			index = min(index, len(w.catalog))
			w.catalog = append(w.catalog[:index:index], append([]domain.CatalogItem{removed}, w.catalog[index:]...)...)
			w.mu.Unlock()
		}
		w.logger.Error().Err(err).Str("catalog_id", id).Msg("workspace: delete failed")
		return err
	}
	return nil
}

func (w *Workspace) AddCustomer(ctx context.Context, in service.NewCustomer) (domain.Customer, error) {
	customer, err := w.deps.Customers.Add(ctx, in)
	if err != nil {
		return domain.Customer{}, err
	}
	w.mu.Lock()
	w.customers = append([]domain.Customer{customer}, w.customers...)
	w.mu.Unlock()
	return customer, nil
}

// SaveToGallery inserts a pending placeholder, then replaces it with the
// persisted item or removes it and returns the error.
func (w *Workspace) SaveToGallery(ctx context.Context, result domain.GenerationResult) (domain.GalleryItem, error) {
	tempID := "temp-" + uuid.NewString()
	w.mu.Lock()
	w.gallery = append([]domain.GalleryItem{{GenerationResult: result, ID: tempID, CreatedAt: w.now(), Pending: true}}, w.gallery...)
	w.mu.Unlock()

	item, err := w.deps.Gallery.Save(ctx, result)

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.gallery {
		if w.gallery[i].ID != tempID {
			continue
		}
		if err != nil {
			w.gallery = append(w.gallery[:i:i], w.gallery[i+1:]...)
		} else {
			w.gallery[i] = item
		}
		break
	}
	if err != nil {
		w.logger.Error().Err(err).Msg("workspace: gallery save failed")
		return domain.GalleryItem{}, err
	}
	return item, nil
}

// ResolveJob builds a JobConfig from ids of loaded items. Garment order is
// kept.
func (w *Workspace) ResolveJob(customerID string, garmentIDs []string, instructions string, usePro bool) (domain.JobConfig, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cfg := domain.JobConfig{Instructions: strings.TrimSpace(instructions), UsePro: usePro}
	for i := range w.customers {
		if w.customers[i].ID == customerID {
			c := w.customers[i]
			cfg.Customer = &c
			break
		}
	}
	if cfg.Customer == nil && customerID != "" {
		return domain.JobConfig{}, fmt.Errorf("%w: customer %s", domain.ErrNotFound, customerID)
	}
	for _, id := range garmentIDs {
		found := false
		for _, item := range w.catalog {
			if item.ID == id {
				cfg.Garments = append(cfg.Garments, item)
				found = true
				break
			}
		}
		if !found {
			return domain.JobConfig{}, fmt.Errorf("%w: garment %s", domain.ErrNotFound, id)
		}
	}
	return cfg, nil
}

// RunJob blocks until the job settles.
func (w *Workspace) RunJob(ctx context.Context, cfg domain.JobConfig) (orchestrator.Outcome, error) {
	return w.orch.RunJob(ctx, cfg)
}

func (w *Workspace) Processing() domain.ProcessingState {
	return w.orch.State()
}

// WatchProgress delivers the current ProcessingState to fn, then every
// transition after it.
func (w *Workspace) WatchProgress(fn func(domain.ProcessingState)) func() {
	return w.orch.Watch(fn)
}

func (w *Workspace) Downloads() *download.Tray {
	return w.tray
}

func (w *Workspace) stageResult(result domain.GenerationResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = &Result{GenerationResult: result, OriginalImageURL: result.ImageURL}
}

func (w *Workspace) Result() (Result, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.result == nil {
		return Result{}, fmt.Errorf("%w: no active result", domain.ErrNotFound)
	}
	return *w.result, nil
}

// EditResult applies instruction to the current result image.
func (w *Workspace) EditResult(ctx context.Context, instruction string) (Result, error) {
	current, err := w.Result()
	if err != nil {
		return Result{}, err
	}
	edited, err := w.deps.Editor.Edit(ctx, current.ImageURL, instruction)
	if err != nil {
		return Result{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return Result{}, fmt.Errorf("%w: no active result", domain.ErrNotFound)
	}
	w.result.ImageURL = media.EncodeDataURL(edited.Image.Data, edited.Image.MIMEType)
	w.result.Saved = false
	return *w.result, nil
}

// SaveResult stores the current result image in the gallery once.
func (w *Workspace) SaveResult(ctx context.Context) (domain.GalleryItem, error) {
	current, err := w.Result()
	if err != nil {
		return domain.GalleryItem{}, err
	}
	if current.Saved {
		return domain.GalleryItem{}, fmt.Errorf("%w: result already saved", domain.ErrValidation)
	}
	item, err := w.SaveToGallery(ctx, current.GenerationResult)
	if err != nil {
		return domain.GalleryItem{}, err
	}
	w.mu.Lock()
	if w.result != nil && w.result.ImageURL == current.ImageURL {
		w.result.Saved = true
	}
	w.mu.Unlock()
	return item, nil
}

// ResultImage loads the current result image with its download name.
func (w *Workspace) ResultImage(ctx context.Context) (string, media.Image, error) {
	current, err := w.Result()
	if err != nil {
		return "", media.Image{}, err
	}
	img, err := w.deps.Images.Load(ctx, current.ImageURL)
	if err != nil {
		return "", media.Image{}, err
	}
	return download.ResultFileName(w.now()), img, nil
}

// GalleryImage loads a confirmed gallery image with its download name.
func (w *Workspace) GalleryImage(ctx context.Context, id string) (string, media.Image, error) {
	var ref string
	w.mu.RLock()
	for _, item := range w.gallery {
		if item.ID == id && !item.Pending {
			ref = item.ImageURL
			break
		}
	}
	w.mu.RUnlock()
	if ref == "" {
		return "", media.Image{}, fmt.Errorf("%w: gallery item %s", domain.ErrNotFound, id)
	}
	img, err := w.deps.Images.Load(ctx, ref)
	if err != nil {
		return "", media.Image{}, err
	}
	return download.GalleryFileName(w.now()), img, nil
}

func (w *Workspace) Page() Page {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.page
}

func (w *Workspace) Navigate(page string) (Page, error) {
	p, err := ParsePage(page)
	if err != nil {
		return "", err
	}
	w.setPage(p)
	return p, nil
}

func (w *Workspace) setPage(p Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.page = p
}

var _ orchestrator.GallerySink = (*Workspace)(nil)
