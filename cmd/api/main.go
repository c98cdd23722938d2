package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-skin-analyzer/internal/config"
	"go-skin-analyzer/internal/container"
	"go-skin-analyzer/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Logger.Debug("No .env file found, using process environment")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	logger.SetLevel(cfg.LogLevel)

	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if strings.TrimSpace(os.Getenv(cfg.KeyEnv())) == "" {
		logger.WithField("env", cfg.KeyEnv()).Warn("Provider API key is not set; analysis requests will fail until it is")
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address":          cfg.ServerAddress(),
			"provider":         cfg.Provider,
			"request_timeout":  cfg.RequestTimeout.String(),
			"provider_timeout": cfg.ProviderTimeout.String(),
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
