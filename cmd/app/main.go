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
	"github.com/Domenick1991/wolkenticket/internal/bootstrap"
	"github.com/Domenick1991/wolkenticket/internal/cache"
	"github.com/Domenick1991/wolkenticket/internal/checkout"
	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/email"
	"github.com/Domenick1991/wolkenticket/internal/kafka"
	"github.com/Domenick1991/wolkenticket/internal/logger"
	paypal "github.com/Domenick1991/wolkenticket/internal/payment"
	"github.com/Domenick1991/wolkenticket/internal/repository"
	"github.com/Domenick1991/wolkenticket/internal/service/auth"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/Domenick1991/wolkenticket/internal/service/forms"
	"github.com/Domenick1991/wolkenticket/internal/service/payment"
	"github.com/Domenick1991/wolkenticket/migrations"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
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
	if cfg.App.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zl.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate(ctx, pool); err != nil {
		zl.Fatal("apply migrations", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Airports.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	clk := clock.NewSystem()
	bookingRepo := repository.NewBookingRepository(pool)
	formRepo := repository.NewFormRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	health := map[string]bootstrap.HealthCheck{
		"postgres": pool.Ping,
		"redis":    redisCache.Ping,
	}

	var hook booking.Hook
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zl)
		defer producer.Close()
		hook = booking.NewEventHook(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic, clk)
		health["kafka"] = producer.CheckConnection
	} else {
		hook = booking.NewEmailHook(email.New(cfg.SMTP, zl))
	}

	bookingService := booking.NewBookingService(bookingRepo, zl,
		booking.WithClock(clk),
		booking.WithPricing(cfg.Booking.UnitPriceCents, cfg.Booking.Currency),
		booking.WithHooks(hook),
	)

	gateway := paypal.NewPayPalGateway(paypal.PayPalConfig{
		BaseURL:  cfg.PayPal.BaseURL,
		ClientID: cfg.PayPal.ClientID,
		Secret:   cfg.PayPal.Secret,
		Timeout:  cfg.PayPal.Timeout(),
	})
	bridge := payment.NewBridge(gateway, bookingService, redisCache, zl,
		payment.WithClock(clk),
		payment.WithPricing(cfg.Booking.UnitPriceCents, cfg.Booking.Currency),
		payment.WithTTLs(
			time.Duration(cfg.Booking.CaptureLockSeconds)*time.Second,
			time.Duration(cfg.Booking.AttemptTTLMinutes)*time.Minute,
		),
	)

	airportService := airports.NewService(
		airports.NewLoader(cfg.Airports.URL, cfg.Airports.Timeout()),
		redisCache,
		time.Duration(cfg.Airports.DebounceMillis)*time.Millisecond,
		zl,
	)
	defer airportService.Close()

	authService := auth.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), zl, auth.WithClock(clk))
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		zl.Fatal("seed admin", zap.Error(err))
	}

	router := bootstrap.NewRouter(cfg, bootstrap.Services{
		Airports: airportService,
		Checkout: checkout.NewService(redisCache, clk, time.Duration(cfg.Checkout.SessionTTLMinutes)*time.Minute),
		Payments: bridge,
		Bookings: bookingService,
		Forms:    forms.NewFormsService(formRepo, zl),
		Auth:     authService,
		Limiter:  redisCache,
		Health:   health,
	}, zl)

	if err := bootstrap.Run(ctx, cfg, router, zl); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

// migrate runs the embedded migrations on one pooled connection so the advisory lock holds.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return migrations.Apply(ctx, conn)
}

