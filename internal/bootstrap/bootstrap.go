// Package bootstrap builds the service graph shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"tailorpreview/internal/adapter/repo"
	"tailorpreview/internal/imagegen"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/infra/credentials"
	"tailorpreview/internal/media"
	"tailorpreview/internal/providers/genai"
	"tailorpreview/internal/service"
	"tailorpreview/internal/storage"
)

type Stack struct {
	Pool        *pgxpool.Pool
	SQL         *infra.SQLRunner
	Credentials *credentials.Store
	Profiles    *repo.ProfileRepositoryPG
	Catalog     *service.CatalogService
	Customers   *service.CustomerService
	Gallery     *service.GalleryService
	ProfileSvc  *service.ProfileService
	Images      *media.Loader
	Generator   *imagegen.Client
	// StaticDir is set when images are stored on the local filesystem.
	StaticDir string
}

// Build connects to Postgres and wires repositories, storage and the image
// backend. Close releases the pool.
func Build(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, metrics *infra.Metrics) (*Stack, error) {
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Stack{Pool: pool}
	s.SQL = infra.NewSQLRunner(pool, logger, metrics)
	s.Credentials = credentials.NewStore(s.SQL)
	s.Profiles = repo.NewProfileRepository(s.SQL)

	store, staticDir, err := newObjectStore(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.StaticDir = staticDir
	uploader := storage.NewUploader(store)

	s.Catalog = service.NewCatalogService(repo.NewCatalogRepository(s.SQL), uploader)
	s.Customers = service.NewCustomerService(repo.NewCustomerRepository(s.SQL), uploader)
	s.Gallery = service.NewGalleryService(repo.NewGalleryRepository(s.SQL), uploader)
	s.ProfileSvc = service.NewProfileService(s.Profiles)

	httpClient := &http.Client{Timeout: 60 * time.Second}
	s.Images = media.NewLoader(httpClient)

	key, err := s.Credentials.ResolveGeminiKey(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("bootstrap: stored gemini key unavailable")
	}
	backend, err := genai.NewClient(genai.Options{
		APIKey:     key,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if backend.Synthetic() {
		logger.Warn().Msg("bootstrap: no gemini key configured, using synthetic images")
	}
	s.Generator = imagegen.NewClient(backend, s.Images, logger, metrics)
	return s, nil
}

func (s *Stack) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func newObjectStore(ctx context.Context, cfg *infra.Config) (storage.ObjectStore, string, error) {
	switch cfg.StorageDriver {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 store: %w", err)
		}
		return store, "", nil
	default:
		store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("file store: %w", err)
		}
		return store, store.BasePath(), nil
	}
}
