package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/wolkenticket/config"
	"github.com/Domenick1991/wolkenticket/internal/airports"
	"github.com/Domenick1991/wolkenticket/internal/cache"
	"github.com/Domenick1991/wolkenticket/internal/email"
	"github.com/Domenick1991/wolkenticket/internal/kafka"
	"github.com/Domenick1991/wolkenticket/internal/logger"
	"github.com/Domenick1991/wolkenticket/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zl.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Airports.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	airportService := airports.NewService(
		airports.NewLoader(cfg.Airports.URL, cfg.Airports.Timeout()),
		redisCache,
		time.Duration(cfg.Airports.DebounceMillis)*time.Millisecond,
		zl,
	)
	defer airportService.Close()

	if cfg.Kafka.Enabled() {
		sender := email.New(cfg.SMTP, zl)
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		go func() {
			err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
				event, err := kafka.DecodeBookingEvent(msg)
				if err != nil {
					zl.Warn("skipping undecodable event", zap.Int64("offset", msg.Offset), zap.Error(err))
					return nil
				}
				if event.Type != kafka.EventBookingConfirmed {
					return nil
				}
				b, err := bookingRepo.GetByID(ctx, event.BookingID)
				if err != nil {
					zl.Warn("skipping event for unknown booking", zap.String("booking_id", event.BookingID), zap.Error(err))
					return nil
				}
				if err := sender.SendConfirmation(ctx, b); err != nil {
					zl.Error("confirmation email failed", zap.String("booking_id", b.ID), zap.Error(err))
				}
				return nil
			})
			if err != nil && ctx.Err() == nil {
				zl.Error("consumer stopped", zap.Error(err))
			}
		}()
	} else {
		zl.Warn("kafka disabled, worker only refreshes airports")
	}

	refreshTicker := time.NewTicker(time.Duration(cfg.Worker.AirportRefreshMinutes) * time.Minute)
	defer refreshTicker.Stop()

	for {
		select {
		case <-refreshTicker.C:
			n, err := airportService.Refresh(ctx)
			if err != nil {
				zl.Warn("airport refresh failed", zap.Error(err))
				continue
			}
			zl.Info("airports refreshed", zap.Int("count", n))
		case <-ctx.Done():
			zl.Info("shutting down worker")
			return
		}
	}
}
