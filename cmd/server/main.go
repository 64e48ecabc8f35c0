package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/slot_board/internal/app"
	"github.com/Freeeeeet/slot_board/internal/config"
	botctl "github.com/Freeeeeet/slot_board/internal/controller/bot"
	"github.com/Freeeeeet/slot_board/internal/controller/httpapi"
	"github.com/Freeeeeet/slot_board/internal/notify"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/getsentry/sentry-go"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting slot board",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageDriver),
		zap.String("addr", cfg.HTTPAddr),
	)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			logger.Warn("Failed to init Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	// Получатели событий журнала
	hub := httpapi.NewHub(logger)
	listeners := notify.Multi{hub}

	if cfg.RabbitURL != "" {
		publisher, err := notify.NewRabbitPublisher(cfg.RabbitURL, cfg.ActivityExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		listeners = append(listeners, publisher)
		logger.Info("Publishing activity to RabbitMQ", zap.String("exchange", cfg.ActivityExchange))
	}

	windowService := service.NewWindowService(store, store)
	participationService := service.NewParticipationService(store, store)
	activityService := service.NewActivityService(store)

	var telegram *botctl.Controller
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		telegram = botctl.NewController(b, botctl.Services{
			Window:        windowService,
			Participation: participationService,
			Activities:    activityService,
		}, cfg.TelegramChatID, loc, logger)
		listeners = append(listeners, telegram)
	}

	bookingService := service.NewBookingService(store, store, listeners, logger)
	bookingService.SetNotifyTimeout(cfg.NotifyTimeout)

	services := httpapi.Services{
		Members:       service.NewMemberService(store, logger),
		Bookings:      bookingService,
		Activities:    activityService,
		Comments:      service.NewCommentService(store, store, logger),
		Participation: participationService,
		Window:        windowService,
	}

	server := httpapi.NewServer(services, store, hub, httpapi.Options{
		CORSOrigins:  cfg.Origins(),
		StoreTimeout: cfg.StoreTimeout,
		Location:     loc,
	}, logger)

	var scheduler *app.Scheduler
	if telegram != nil {
		if err := telegram.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands not registered", zap.Error(err))
		}
		go telegram.Start(ctx)

		scheduler = app.NewScheduler(telegram, cfg.DigestInterval, logger)
		scheduler.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	logger.Info("Server stopped")
	return nil
}
