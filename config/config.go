package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	PayPal    PayPalConfig    `yaml:"paypal"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Airports  AirportsConfig  `yaml:"airports"`
	Booking   BookingConfig   `yaml:"booking"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Worker    WorkerConfig    `yaml:"worker"`
}

type AppConfig struct {
	Env string `yaml:"env"`
}

func (a AppConfig) Production() bool {
	return a.Env == "production"
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	// URL, when set, is used as is and the discrete fields are ignored.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// Enabled reports whether booking notifications go through Kafka instead of inline email.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.NotificationsTopic != ""
}

type PayPalConfig struct {
	BaseURL        string `yaml:"base_url"`
	ClientID       string `yaml:"client_id"`
	Secret         string `yaml:"secret"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (p PayPalConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

type AirportsConfig struct {
	URL             string `yaml:"url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	DebounceMillis  int    `yaml:"debounce_millis"`
}

func (a AirportsConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type BookingConfig struct {
	UnitPriceCents int64  `yaml:"unit_price_cents"`
	Currency       string `yaml:"currency"`
	// CaptureLockSeconds bounds how long one order id is held while its capture runs.
	CaptureLockSeconds int `yaml:"capture_lock_seconds"`
	AttemptTTLMinutes  int `yaml:"attempt_ttl_minutes"`
}

type CheckoutConfig struct {
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	// AdminEmail and AdminPassword seed the back-office account on startup when both are set.
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled"`
	Requests      int  `yaml:"requests"`
	WindowSeconds int  `yaml:"window_seconds"`
}

type WorkerConfig struct {
	AirportRefreshMinutes int `yaml:"airport_refresh_minutes"`
}

// LoadConfig reads the YAML file at path. A .env file in the working directory,
// when present, is loaded first so secrets can be kept out of the YAML.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Database.URL, "DATABASE_URL")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.PayPal.ClientID, "PAYPAL_CLIENT_ID")
	overrideString(&c.PayPal.Secret, "PAYPAL_SECRET")
	overrideString(&c.SMTP.Host, "SMTP_HOST")
	overrideString(&c.SMTP.User, "SMTP_USER")
	overrideString(&c.SMTP.Password, "SMTP_PASSWORD")
	overrideString(&c.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&c.Auth.AdminEmail, "ADMIN_EMAIL")
	overrideString(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	overrideString(&c.Airports.URL, "AIRPORTS_URL")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.PayPal.BaseURL == "" {
		c.PayPal.BaseURL = "https://api-m.sandbox.paypal.com"
	}
	if c.PayPal.TimeoutSeconds <= 0 {
		c.PayPal.TimeoutSeconds = 15
	}
	if c.SMTP.From == "" {
		c.SMTP.From = "support@wolkenticket.com"
	}
	if c.SMTP.FromName == "" {
		c.SMTP.FromName = "Wolkenticket Support"
	}
	if c.Airports.TimeoutSeconds <= 0 {
		c.Airports.TimeoutSeconds = 15
	}
	if c.Airports.CacheTTLSeconds <= 0 {
		c.Airports.CacheTTLSeconds = 3600
	}
	if c.Airports.DebounceMillis <= 0 {
		c.Airports.DebounceMillis = 300
	}
	if c.Booking.UnitPriceCents <= 0 {
		c.Booking.UnitPriceCents = 800
	}
	if c.Booking.Currency == "" {
		c.Booking.Currency = "USD"
	}
	if c.Booking.CaptureLockSeconds <= 0 {
		c.Booking.CaptureLockSeconds = 60
	}
	if c.Booking.AttemptTTLMinutes <= 0 {
		c.Booking.AttemptTTLMinutes = 60
	}
	if c.Checkout.SessionTTLMinutes <= 0 {
		c.Checkout.SessionTTLMinutes = 120
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		c.Auth.TokenTTLMinutes = 60
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 30
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Worker.AirportRefreshMinutes <= 0 {
		c.Worker.AirportRefreshMinutes = 360
	}
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
