package main

import (
	"context"
	"fmt"
	"os"

	"github.com/anonto42/engagement/backend/internal/cli"
	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/anonto42/engagement/backend/pkg/config"
)

func main() {
	cfg := config.Load()
	logs.Init(os.Stderr, cfg.LogLevel)

	open := func(ctx context.Context) (*engagement.Reconciler, func(), error) {
		if cfg.StoreBackend != config.BackendPostgresMongo {
			return nil, nil, fmt.Errorf("reconcile needs STORE_BACKEND=%s, got %q", config.BackendPostgresMongo, cfg.StoreBackend)
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		mdb := db.Mongo.Database(cfg.MongoDatabase)
		posts := repositories.NewMongoPostRepository(mdb)
		reconciler := engagement.NewReconciler(
			posts,
			repositories.NewPostgresReactionRepository(db.Postgres),
			repositories.NewPostgresCommentRepository(db.Postgres),
			posts,
			repositories.NewMongoDriftRepository(mdb),
			cfg.ReconcileConcurrency,
		)
		return reconciler, db.CloseDB, nil
	}

	if err := cli.NewRootCommand(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
