package main

import (
	"context"
	"net/http"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"tailorpreview/internal/bootstrap"
	"tailorpreview/internal/http/handlers"
	httpapi "tailorpreview/internal/http/httpapi"
	"tailorpreview/internal/imagegen"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/providers/supabase"
	"tailorpreview/internal/session"
	"tailorpreview/internal/settings"
	"tailorpreview/internal/workspace"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	metrics := infra.NewMetrics()

	ctx := context.Background()
	stack, err := bootstrap.Build(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build services")
	}
	defer stack.Close()

	settingsBackend := settings.Backend(settings.NewMemoryBackend())
	if cfg.RedisURL != "" {
		rdb, err := settings.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()
		settingsBackend = settings.NewRedisBackend(rdb)
	} else {
		logger.Warn().Msg("REDIS_URL not set, prompt overrides are kept in memory")
	}
	prompts := settings.NewService(settingsBackend, imagegen.DefaultSystemPrompt)

	authClient, err := supabase.NewAuthClient(supabase.Options{BaseURL: cfg.SupabaseURL, AnonKey: cfg.SupabaseAnonKey})
	if err != nil {
		logger.Fatal().Err(err).Msg("SUPABASE_URL is required for sign-in")
	}
	resolver := session.NewResolver(cfg.SupabaseJWTSecret, stack.Profiles, logger, metrics)

	registry := workspace.NewRegistry(workspace.Deps{
		Catalog:    stack.Catalog,
		Customers:  stack.Customers,
		Gallery:    stack.Gallery,
		Generator:  stack.Generator,
		Editor:     stack.Generator,
		Prompts:    prompts,
		Images:     stack.Images,
		ResetDelay: cfg.JobResetDelay,
		Logger:     logger,
		Metrics:    metrics,
	})

	app := &handlers.App{
		Auth:       session.NewAuthenticator(authClient, resolver, logger),
		Workspaces: registry,
		Profiles:   stack.ProfileSvc,
		Settings:   prompts,
		Ready:      stack.Pool.Ping,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.CORSAllowedOrigins),
		},
		Logger: logger,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Resolver:        resolver,
		Logger:          logger,
		Metrics:         metrics,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       stack.StaticDir,
	})

	server := infra.NewHTTPServer(cfg, router)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Msgf("API listening on %s", server.Addr())
	if err := server.Run(runCtx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		return
	}
	logger.Info().Msg("server stopped")
}

// checkOrigin accepts requests without an Origin header and origins in the
// CORS allow list.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}
