package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/handlers"
	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/middleware"
	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/anonto42/engagement/backend/internal/repositories/memory"
	"github.com/anonto42/engagement/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Stores bundles the repositories the routes are built on
type Stores struct {
	Posts     repositories.PostRepository
	Reactions repositories.ReactionRepository
	Comments  repositories.CommentRepository
	Users     repositories.UserRepository
	Drift     repositories.DriftRepository
}

// PostgresMongoStores migrates the PostgreSQL tables, ensures the MongoDB
// indexes and returns the production repositories.
func PostgresMongoStores(ctx context.Context, pgdb *gorm.DB, mdb *mongo.Database) (*Stores, error) {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Reaction{},
		&models.Comment{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	logs.LogJSON("INFO", "PostgreSQL auto-migrations completed", nil)

	drift := repositories.NewMongoDriftRepository(mdb)
	if err := drift.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("counter_drift indexes: %w", err)
	}

	return &Stores{
		Posts:     repositories.NewMongoPostRepository(mdb),
		Reactions: repositories.NewPostgresReactionRepository(pgdb),
		Comments:  repositories.NewPostgresCommentRepository(pgdb),
		Users:     repositories.NewPostgresUserRepository(pgdb),
		Drift:     drift,
	}, nil
}

// MemoryStores serves every repository from one in-memory store
func MemoryStores(store *memory.Store) *Stores {
	return &Stores{
		Posts:     store,
		Reactions: store,
		Comments:  store,
		Users:     store,
		Drift:     store,
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// auth guards every /api/v1 route.
func SetupRoutes(e *echo.Echo, stores *Stores, auth echo.MiddlewareFunc, cfg *config.Config) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	engine := engagement.NewReactionEngine(stores.Posts, stores.Users, stores.Reactions, stores.Posts, stores.Drift).
		WithCounterTimeout(cfg.DBTimeout)
	commentCounter := engagement.NewCommentCounter(stores.Posts, stores.Drift)

	api := e.Group("/api/v1")
	api.Use(auth)

	// Post routes
	postHandler := handlers.NewPostHandler(stores.Posts, engine)
	postHandler.RegisterPostRoutes(api)

	// Reaction routes
	var toggleMiddleware []echo.MiddlewareFunc
	if cfg.RateLimitRPS > 0 {
		toggleMiddleware = append(toggleMiddleware, toggleRateLimiter(cfg.RateLimitRPS))
	}
	reactionHandler := handlers.NewReactionHandler(engine, stores.Posts, cfg.ToggleMaxAttempts)
	reactionHandler.RegisterReactionRoutes(api, toggleMiddleware...)

	// Comment routes
	commentHandler := handlers.NewCommentHandler(stores.Comments, stores.Posts, stores.Users, commentCounter)
	commentHandler.RegisterCommentRoutes(api)

	logs.LogJSON("INFO", "routes configured", map[string]interface{}{"routes": len(e.Routes())})
}

// toggleRateLimiter limits toggles per authenticated user, falling back to
// the client IP.
func toggleRateLimiter(rps float64) echo.MiddlewareFunc {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
		Store: eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if id, ok := c.Get(middleware.UserIDKey).(uint); ok {
				return fmt.Sprintf("user:%d", id), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many reaction requests, slow down")
		},
	})
}
