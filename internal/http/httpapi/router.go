package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/http/handlers"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/middleware"
)

type Options struct {
	Resolver        middleware.SessionResolver
	Logger          zerolog.Logger
	Metrics         *infra.Metrics
	AllowedOrigins  []string
	RateLimitPerMin int
	// StaticDir is served under /static when images are stored locally.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger, opts.Metrics),
		middleware.CORS(opts.AllowedOrigins),
	)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Use(middleware.Session(opts.Resolver))

			r.Post("/auth/login", app.Login)
			r.Post("/auth/logout", app.Logout)
			r.Get("/session", app.Session)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleShop))

				r.Get("/workspace", app.Workspace)
				r.Put("/workspace/page", app.Navigate)

				r.Get("/catalog", app.ListCatalog)
				r.Post("/catalog", app.CreateCatalog)
				r.Delete("/catalog/{id}", app.DeleteCatalog)

				r.Get("/customers", app.ListCustomers)
				r.Post("/customers", app.CreateCustomer)

				r.Get("/gallery", app.ListGallery)
				r.Post("/gallery", app.CreateGallery)
				r.Get("/gallery/{id}/download", app.DownloadGallery)

				r.Post("/jobs", app.RunJob)
				r.Get("/jobs/state", app.JobState)
				r.Get("/jobs/state/ws", app.JobStateStream)
				r.Get("/jobs/downloads/{index}", app.JobDownload)
				r.Get("/jobs/downloads.zip", app.JobDownloadArchive)

				r.Get("/result", app.Result)
				r.Post("/result/edit", app.EditResult)
				r.Post("/result/save", app.SaveResult)
				r.Get("/result/download", app.DownloadResult)

				r.Get("/settings/prompt", app.GetPrompt)
				r.Put("/settings/prompt", app.PutPrompt)
				r.Delete("/settings/prompt", app.ResetPrompt)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Get("/admin/profiles", app.ListProfiles)
				r.Put("/admin/profiles/{id}/role", app.SetProfileRole)
			})
		})
	})

	return r
}
