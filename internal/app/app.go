package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"topicwheel/internal/auth"
	"topicwheel/internal/config"
	"topicwheel/internal/db"
	"topicwheel/internal/domain"
	"topicwheel/internal/filestore"
	httpx "topicwheel/internal/http"
	"topicwheel/internal/http/handler"
	"topicwheel/internal/moderation"
	"topicwheel/internal/topics"
	"topicwheel/internal/workflow"
)

// StateStore is the persistence contract shared by the file and SQL stores.
type StateStore interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, st *domain.State) error
	Ping(ctx context.Context) error
}

// Run is the application entry point. It serves HTTP until ctx is canceled and
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	h, cleanup, err := NewHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// NewHandler wires stores, services and the router. The returned cleanup
// releases the database connection, if any.
func NewHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	store, cleanup, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	// Fail fast on an unreadable aggregate; the file store also creates it here.
	if _, err := store.Load(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load state: %w", err)
	}

	catalog := topics.NewCatalog(cfg.Storage.TopicsPath())

	admins := auth.ParseAllowlist(cfg.Auth.AdminAllowlist)
	if len(admins) == 0 {
		logger.Warn("ADMIN_ALLOWLIST is empty, moderation is unavailable")
	}

	var jwtSvc *auth.JWT
	if cfg.Auth.TokensEnabled() {
		jwtSvc = auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	}

	workflowSvc := workflow.NewService(logger, store, catalog)
	moderationSvc := moderation.NewService(logger, store, admins)

	router := httpx.NewRouter(cfg.CORS, logger, jwtSvc, httpx.Handlers{
		Participant: handler.NewParticipantHandler(workflowSvc, jwtSvc, logger),
		Admin:       handler.NewAdminHandler(moderationSvc, logger),
		Health: handler.NewHealthHandler(BuildVersion(),
			handler.HealthCheck{Name: "store", Pinger: store},
			handler.HealthCheck{Name: "topics", Pinger: catalog},
		),
	})

	return router, cleanup, nil
}

// OpenStore opens the configured aggregate store. For the SQL driver the schema
// is migrated before use.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (StateStore, func(), error) {
	switch cfg.Driver {
	case config.DriverSQL:
		gdb, err := db.Connect(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if err := db.Migrate(ctx, gdb); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return db.NewStateStore(gdb), closeDB, nil
	default:
		return filestore.New(cfg.StatePath()), func() {}, nil
	}
}
