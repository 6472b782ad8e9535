package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"project-rows/internal/config"
	"project-rows/internal/database"
	"project-rows/internal/handlers"
	"project-rows/internal/logging"
	"project-rows/internal/metrics"
	"project-rows/internal/middleware"
	"project-rows/internal/ws"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type application struct {
	cfg      config.Config
	store    database.Store
	hub      *ws.Hub
	metrics  *metrics.Metrics
	logger   *zap.Logger
	projects *handlers.ProjectHandler
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()
	logger.Info("storage ready", zap.String("driver", cfg.DB.Driver), zap.String("path", cfg.DB.Path))

	app := newApplication(cfg, store, logger)
	go app.hub.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: app.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newApplication(cfg config.Config, store database.Store, logger *zap.Logger) *application {
	hub := ws.NewHub(logger.Named("hub"))
	m := metrics.New()
	return &application{
		cfg:      cfg,
		store:    store,
		hub:      hub,
		metrics:  m,
		logger:   logger,
		projects: handlers.NewProjectHandler(store, hub, m, logger),
	}
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(app.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(app.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	// Frontend
	r.Get("/", handlers.ServeIndex(app.cfg.FrontendDir))
	r.Handle("/assets/*", handlers.ServeAssets(app.cfg.FrontendDir))

	r.Route("/rows", func(r chi.Router) {
		r.Get("/", app.projects.ListRows)
		r.Post("/", app.projects.AddRow)
		r.Get("/{index:[0-9]+}", app.projects.GetRow)
		r.Patch("/{index:[0-9]+}", app.projects.UpdateRowStatus)
	})

	r.Get("/ws", handlers.ServeWs(app.hub, app.logger))
	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
