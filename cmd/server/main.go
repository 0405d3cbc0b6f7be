// Package main runs the voice-answer Q&A HTTP server with graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/voiceover/backend/config"
	"github.com/voiceover/backend/internal/ipcheck"
	"github.com/voiceover/backend/internal/middleware"
	"github.com/voiceover/backend/internal/questions"
	"github.com/voiceover/backend/internal/responses"
	"github.com/voiceover/backend/internal/store"
	"github.com/voiceover/backend/internal/store/postgres"
	"github.com/voiceover/backend/internal/store/sqlite"
	"github.com/voiceover/backend/pkg/response"
	"github.com/voiceover/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	st, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store", zap.Error(err))
	}
	defer st.Close()

	uploader, err := newUploader(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	questionHandler := questions.NewHandler(st, logger)
	responseService := responses.NewService(st, uploader, cfg.Upload.TmpDir, logger)
	responseHandler := responses.NewHandler(responseService, st, logger)
	ipcheckHandler := ipcheck.NewHandler(cfg.Access.AllowedIPs)

	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.Any("panic", recovered))
		response.Internal(c, "internal server error")
	}))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	router.GET("/questions", questionHandler.List)
	router.POST("/questions", questionHandler.Create)
	router.POST("/responses", responseHandler.Submit)
	router.GET("/responses/:questionId", responseHandler.ListByQuestion)
	router.GET("/api/check-ip", ipcheckHandler.Check)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Database.URL, logger)
	case config.DriverSQLite:
		return sqlite.New(cfg.Database.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func newUploader(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Uploader, error) {
	switch cfg.Storage.Backend {
	case config.StorageS3:
		return storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
		}, logger)
	case config.StorageMinio:
		return storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.MinioEndpoint,
			AccessKey: cfg.Storage.MinioAccessKey,
			SecretKey: cfg.Storage.MinioSecretKey,
			Bucket:    cfg.Storage.MinioBucket,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
