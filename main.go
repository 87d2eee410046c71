package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitovidale/ai-video-backend/config"
	"github.com/vitovidale/ai-video-backend/domain"
	"github.com/vitovidale/ai-video-backend/infrastructure"
	"github.com/vitovidale/ai-video-backend/usecase"
	"go.uber.org/zap"
)

const (
	connectAttempts = 5
	connectDelay    = 5 * time.Second
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Log.Level, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := infrastructure.OpenDocumentStore(ctx, infrastructure.StoreOptions{
		URL:          cfg.Database.URL,
		DatabaseName: cfg.Database.Name,
		Attempts:     connectAttempts,
		RetryDelay:   connectDelay,
	}, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}()

	metrics := infrastructure.NewMetrics(func() bool {
		_, unavailable := store.(infrastructure.UnavailableStore)
		return !unavailable
	})

	notifiers := infrastructure.MultiNotifier{
		infrastructure.LogNotifier{Logger: logger},
		metrics,
	}
	var broker *infrastructure.RabbitMQNotifier
	if cfg.RabbitMQ.URL != "" {
		broker, err = infrastructure.DialRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, connectAttempts, connectDelay, logger)
		if err != nil {
			logger.Error("video events will not be published", zap.Error(err))
		} else {
			defer broker.Close()
			notifiers = append(notifiers, broker)
		}
	}

	handlers := newHandlers(cfg, store, notifiers, logger)
	if broker != nil {
		handlers.Broker = broker
	}

	router := infrastructure.NewRouter(handlers, infrastructure.RouterOptions{
		CORSAllowOrigin: cfg.Server.CORSAllowOrigin,
		Metrics:         metrics,
		Logger:          logger,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newHandlers(cfg *config.Config, store domain.DocumentStore, notifier domain.NotificationService, logger *zap.Logger) *infrastructure.VideoHandlers {
	repo := infrastructure.NewDocumentVideoRepository(store, logger)

	return infrastructure.NewVideoHandlers(
		&usecase.GeneratePreviewUseCase{VideoRepo: repo, Notification: notifier, Logger: logger},
		&usecase.StartVideoUseCase{VideoRepo: repo, Notification: notifier, Logger: logger},
		&usecase.ListVideosUseCase{VideoRepo: repo, DefaultLimit: int64(cfg.Videos.DefaultListLimit)},
		&usecase.DiagnoseUseCase{Store: store},
		store,
		logger,
	)
}
