package main

import (
	"context"
	"time"

	"cart-operations/internal/config"
	"cart-operations/internal/db"
	"cart-operations/internal/logging"
	"cart-operations/internal/repository"
	"cart-operations/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("cmd", "seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, repository.NewTxManager(pool, logger), time.Now(), logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Info("seed applied")
}
