package main

import (
	"context"

	"cart-operations/internal/config"
	"cart-operations/internal/db"
	"cart-operations/internal/logging"
	"cart-operations/internal/migrate"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("cmd", "migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.WithField("version", version).Info("migrations applied")
}
