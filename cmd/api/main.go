package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cart-operations/internal/config"
	"cart-operations/internal/db"
	"cart-operations/internal/httpserver"
	"cart-operations/internal/logging"
	"cart-operations/internal/pricing"
	"cart-operations/internal/repository"
	productrepo "cart-operations/internal/repository/product"
	userrepo "cart-operations/internal/repository/user"
	cartsvc "cart-operations/internal/service/cart"
	productsvc "cart-operations/internal/service/product"
	usersvc "cart-operations/internal/service/user"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	pricingCfg, err := cfg.Pricing()
	if err != nil {
		logger.Fatalf("invalid discount config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	calc := pricing.NewCalculator(pricingCfg)
	txManager := repository.NewTxManager(dbpool, logger)
	cartService := cartsvc.New(txManager, calc, logger)
	productService := productsvc.New(productrepo.NewPostgres(dbpool, logger))
	userService := usersvc.New(userrepo.NewPostgres(dbpool, logger))

	gin.SetMode(gin.ReleaseMode)
	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Carts:              cartService,
		Products:           productService,
		Users:              userService,
		DB:                 dbpool,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
