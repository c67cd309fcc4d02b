package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/middleware"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories/memory"
	"github.com/anonto42/engagement/backend/internal/router"
	"github.com/anonto42/engagement/backend/internal/validators"
	"github.com/anonto42/engagement/backend/pkg/config"
	"github.com/anonto42/engagement/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logs.Init(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize stores
	var stores *router.Stores
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		store.AddUser(models.User{ID: 1, Name: "Dev User", Email: "dev@example.com"})
		stores = router.MemoryStores(store)
		logs.LogJSON("WARN", "using in-memory stores, data is lost on exit", nil)
	case config.BackendPostgresMongo:
		db, err := config.InitDB(cfg)
		if err != nil {
			fatal("failed to initialize databases", err)
		}
		defer db.CloseDB()

		stores, err = router.PostgresMongoStores(ctx, db.Postgres, db.Mongo.Database(cfg.MongoDatabase))
		if err != nil {
			fatal("failed to prepare stores", err)
		}
	default:
		fatal("unknown STORE_BACKEND", errors.New(cfg.StoreBackend))
	}

	// Firebase ID tokens when credentials are configured, service JWTs otherwise
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret, stores.Users)
	if cfg.FirebaseCredentialsPath != "" {
		authClient, err := firebase.NewAuthClient(ctx, firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
		})
		if err != nil {
			fatal("failed to initialize Firebase", err)
		}
		auth = middleware.FirebaseAuthMiddleware(authClient, stores.Users)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, stores, auth, cfg)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server stopped", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logs.LogJSON("ERROR", "graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}

func fatal(message string, err error) {
	logs.LogJSON("ERROR", message, map[string]interface{}{"error": err.Error()})
	os.Exit(1)
}
