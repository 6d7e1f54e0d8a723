package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/foodmenu/internal/config"
	"github.com/dukerupert/foodmenu/internal/dashboard"
	"github.com/dukerupert/foodmenu/internal/foodapi"
	"github.com/dukerupert/foodmenu/internal/logging"
	"github.com/dukerupert/foodmenu/internal/server"
	ws "github.com/dukerupert/foodmenu/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	hub := ws.NewHub(logger.With("component", "websocket"))
	client := foodapi.NewClient(foodapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	ctrl := dashboard.NewController(client, hub, logger.With("component", "dashboard"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The initial load runs once; a failure is fatal.
	if err := ctrl.Load(ctx); err != nil {
		logger.Error("load foods", "api", cfg.API.BaseURL, "error", err)
		os.Exit(1)
	}
	logger.Info("foods loaded", "count", len(ctrl.Items()), "api", cfg.API.BaseURL)

	srv := server.New(ctrl, hub, server.Options{
		RateLimit:      cfg.RateLimit,
		OriginPatterns: cfg.Origins,
	}, logger)

	go srv.RateLimiter().Run(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.API.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("food menu dashboard running", "url", "http://localhost:"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
