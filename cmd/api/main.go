//	@title			CloudVault API
//	@version		1.0
//	@description	Aggregates the quotas and files of several cloud-storage accounts into one dashboard.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/cloudvault/service/internal/account"
	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/config"
	"github.com/cloudvault/service/internal/dashboard"
	"github.com/cloudvault/service/internal/db"
	"github.com/cloudvault/service/internal/identity"
	"github.com/cloudvault/service/internal/logging"
	appMiddleware "github.com/cloudvault/service/internal/middleware"
	"github.com/cloudvault/service/internal/session"
	"github.com/cloudvault/service/internal/storage"
	"github.com/cloudvault/service/internal/workspace"

	_ "github.com/cloudvault/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.EnvFileLoaded {
		logger.Debug("no .env file found, using environment only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session backend: Postgres when persisted, no-op otherwise
	var store backend.Backend = backend.Ephemeral{}
	if cfg.IsPersisted() {
		pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
		store = backend.NewPostgres(pool)
	}
	logger.Info("session backend ready", zap.String("mode", cfg.StorageMode))

	var avatars storage.Storage
	if cfg.AvatarsEnabled() {
		ms, err := storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Bucket:     cfg.StorageBucket,
			PublicBase: cfg.StoragePublicBase,
			UseSSL:     cfg.StorageUseSSL,
		}, logger)
		if err != nil {
			logger.Fatal("object storage init failed", zap.Error(err))
		}
		avatars = ms
	} else {
		logger.Info("avatar uploads disabled, STORAGE_ENDPOINT is empty")
	}

	// Wire dependencies: backend → session store → handlers
	sessions := session.NewStore(identity.Demo{}, store, session.Config{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Workspace: workspace.Options{
			Policy:   cfg.QuotaPolicy,
			Strategy: cfg.UploadStrategy,
			Logger:   logger,
		},
	}, logger)
	accountHandler := account.NewHandler(sessions, avatars, logger)
	dashboardHandler := dashboard.NewHandler(sessions)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/providers/catalog", dashboardHandler.Catalog)
		r.Post("/auth/login", accountHandler.Login)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(sessions))
			r.Post("/auth/logout", accountHandler.Logout)
			r.Get("/me", accountHandler.GetMe)
			r.Post("/me/avatar", accountHandler.UploadAvatar)
			dashboardHandler.Register(r)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
