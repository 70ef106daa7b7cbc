package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/wolkenticket/api"
	"github.com/Domenick1991/wolkenticket/config"
	"github.com/Domenick1991/wolkenticket/internal/airports"
	"github.com/Domenick1991/wolkenticket/internal/checkout"
	"github.com/Domenick1991/wolkenticket/internal/service/auth"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/Domenick1991/wolkenticket/internal/service/forms"
	"github.com/Domenick1991/wolkenticket/internal/service/payment"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Services struct {
	Airports airports.AirportsUseCase
	Checkout checkout.CheckoutUseCase
	Payments payment.PaymentUseCase
	Bookings booking.BookingUseCase
	Forms    forms.FormsUseCase
	Auth     auth.AuthUseCase
	Limiter  api.Limiter
	Health   map[string]HealthCheck
}

// NewRouter builds the gin engine with every HTTP route of the shop.
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestID(), api.Logger(logger))

	if len(cfg.HTTP.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.HTTP.AllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", api.RequestIDHeader},
			ExposeHeaders: []string{api.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler(svc.Health))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	apiGroup := router.Group("/api")
	api.NewAirportHandler(svc.Airports).Register(apiGroup.Group("/airports"))
	api.NewCheckoutHandler(svc.Checkout).Register(apiGroup.Group("/checkout"))
	api.NewFormHandler(svc.Forms).Register(apiGroup.Group("/forms"))

	var lookup []gin.HandlerFunc
	if cfg.RateLimit.Enabled && svc.Limiter != nil {
		lookup = append(lookup, api.RateLimit(svc.Limiter, cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))
	}
	api.NewBookingHandler(svc.Payments, svc.Bookings, svc.Checkout).Register(apiGroup.Group("/bookings"), lookup...)

	api.NewAdminHandler(svc.Auth, svc.Bookings, svc.Airports, logger).
		Register(apiGroup.Group("/admin"), api.JWTAuth(svc.Auth))

	return router
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
	}
}

// Run serves handler on the configured address and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen http %s: %w", cfg.HTTP.Address, err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
