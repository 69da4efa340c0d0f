package main

import (
	"context"
	"flag"
	"os"
	"time"

	"cart-operations/internal/config"
	"cart-operations/internal/db"
	"cart-operations/internal/importer"
	"cart-operations/internal/logging"
	"cart-operations/internal/repository"

	"github.com/sirupsen/logrus"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (name,description,category,price,available_quantity,employee_discount)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("cmd", "importer")
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	start := time.Now()
	var count int
	// One transaction so a bad row leaves the catalog untouched.
	err = repository.NewTxManager(pool, logger).WithinTx(ctx, func(r repository.Repos) error {
		var runErr error
		count, runErr = importer.NewCSVImporter(f, r.Products()).Run(ctx)
		return runErr
	})
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"count":    count,
		"file":     filePath,
		"duration": time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("products imported")
}
