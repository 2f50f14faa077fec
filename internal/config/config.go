package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/numbering"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Log      LogConfig
	Seller   SellerConfig
	Invoice  InvoiceConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	RateLimit    float64 // requests per second per client, 0 disables
	RateBurst    int
}

type LogConfig struct {
	Level string
}

// SellerConfig holds the process-wide seller identity used when a draft omits it
type SellerConfig struct {
	Name  string
	TaxID string
}

type InvoiceConfig struct {
	Prefix   string
	Timezone string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadOption customizes Load
type LoadOption func(*viper.Viper) error

// WithConfigFile reads settings from path (.env, .yaml, .json, .toml)
func WithConfigFile(path string) LoadOption {
	return func(v *viper.Viper) error {
		if path == "" {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// WithOverride sets key with the highest precedence (used for CLI flags)
func WithOverride(key string, value any) LoadOption {
	return func(v *viper.Viper) error {
		v.Set(key, value)
		return nil
	}
}

func Load(opts ...LoadOption) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_NAME", "invoice-finalizer")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_DEBUG", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SELLER_NAME", "")
	v.SetDefault("SELLER_TAX_ID", "")
	v.SetDefault("INVOICE_PREFIX", numbering.DefaultPrefix)
	v.SetDefault("INVOICE_TIMEZONE", "Local")
	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "invoices")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	if v.ConfigFileUsed() == "" {
		slog.Debug("no config file, using environment variables and defaults")
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
		},
		Server: ServerConfig{
			Address:      v.GetString("SERVER_ADDRESS"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			Debug:        v.GetBool("SERVER_DEBUG"),
			RateLimit:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateBurst:    v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Seller: SellerConfig{
			Name:  v.GetString("SELLER_NAME"),
			TaxID: v.GetString("SELLER_TAX_ID"),
		},
		Invoice: InvoiceConfig{
			Prefix:   v.GetString("INVOICE_PREFIX"),
			Timezone: v.GetString("INVOICE_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that would make every finalization fail
func (c *Config) Validate() error {
	if n := len(c.Seller.Name); n > tlv.MaxValueLength {
		return model.NewValidationError("SELLER_NAME", n, "max_bytes", fmt.Sprintf("must be at most %d bytes", tlv.MaxValueLength))
	}
	if n := len(c.Seller.TaxID); n > tlv.MaxValueLength {
		return model.NewValidationError("SELLER_TAX_ID", n, "max_bytes", fmt.Sprintf("must be at most %d bytes", tlv.MaxValueLength))
	}
	if _, err := c.Invoice.Location(); err != nil {
		return model.NewValidationError("INVOICE_TIMEZONE", c.Invoice.Timezone, "tz", err.Error())
	}
	return nil
}

// Location resolves the numbering time zone
func (c *InvoiceConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Enabled reports whether a database host is configured
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
