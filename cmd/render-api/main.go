package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/research-guide-api/api/swagger"
	"github.com/noah-isme/research-guide-api/internal/handler"
	internalmiddleware "github.com/noah-isme/research-guide-api/internal/middleware"
	"github.com/noah-isme/research-guide-api/internal/service"
	"github.com/noah-isme/research-guide-api/pkg/config"
	"github.com/noah-isme/research-guide-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/research-guide-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/research-guide-api/pkg/middleware/requestid"
	"github.com/noah-isme/research-guide-api/pkg/storage"
)

// @title Research Guide Rendering API
// @version 1.0.0
// @description Renders research project drafts to downloadable PDF documents.
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	documents, err := storage.NewLocalStorage(cfg.Render.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err, "dir", cfg.Render.StorageDir)
	}
	var signer *storage.SignedURLSigner
	if cfg.Render.SignedURLSecret != "" {
		signer = storage.NewSignedURLSigner(cfg.Render.SignedURLSecret, cfg.Render.SignedURLTTL)
	} else if cfg.Env == config.EnvProduction {
		logr.Warn("RENDER_SIGNED_URL_SECRET is empty; download links are unsigned")
	}

	metricsSvc := service.NewMetricsService()
	prefix := strings.TrimRight(cfg.APIPrefix, "/")
	renderSvc := service.NewRenderService(documents, signer, service.RenderConfig{
		DownloadPath:     prefix + "/download",
		FileTTL:          cfg.Render.FileTTL,
		CleanupInterval:  cfg.Render.CleanupInterval,
		MaxSectionLength: cfg.Render.MaxSectionLength,
	}, metricsSvc, logr, nil)
	renderSvc.StartCleanup(ctx)

	researchHandler := handler.NewResearchHandler(renderSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"storage": func(context.Context) error {
			info, err := os.Stat(cfg.Render.StorageDir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", cfg.Render.StorageDir)
			}
			return nil
		},
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	research := r.Group(prefix)
	research.POST("/generate", researchHandler.Generate)
	research.GET("/download/:file", researchHandler.Download)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
