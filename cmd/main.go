package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sdoba/internal/config"
	httpapi "sdoba/internal/http"
	"sdoba/internal/storage"
	"sdoba/internal/suggest"
	"sdoba/internal/upstream"

	_ "sdoba/docs"
)

// @title Sdoba Storefront API
// @version 1.0
// @description Витрина пекарни: корзина, адресные подсказки, оформление и гостевые заказы
// @BasePath /api/v1
func main() {
	// .env необязателен, в проде переменные приходят из окружения
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	kv, err := newStorage(cfg)
	if err != nil {
		logger.Fatal("storage init failed", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second}
	backend := upstream.NewClient(cfg.BackendURL, httpClient, logger)
	suggester := upstream.NewSuggestClient(cfg.SuggestURL, httpClient, logger)

	srv := httpapi.NewServer(backend, suggester, kv, suggest.DefaultDebounce, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newStorage(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "redis":
		return storage.NewRedisStore(cfg.RedisURL, "sdoba")
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFileStore(cfg.DataDir)
	}
}
