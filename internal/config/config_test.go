package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-finalizer/internal/config"
	"github.com/rezonia/invoice-finalizer/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "invoice-finalizer", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.Equal(t, 40, cfg.Server.RateBurst)
	assert.Equal(t, "INV-", cfg.Invoice.Prefix)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SELLER_NAME", "Acme LLC")
	t.Setenv("SELLER_TAX_ID", "100123456700003")
	t.Setenv("INVOICE_PREFIX", "POS-")
	t.Setenv("INVOICE_TIMEZONE", "UTC")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Acme LLC", cfg.Seller.Name)
	assert.Equal(t, "100123456700003", cfg.Seller.TaxID)
	assert.Equal(t, "POS-", cfg.Invoice.Prefix)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)

	loc, err := cfg.Invoice.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finalizer.env")
	content := "SELLER_NAME=File Seller\nDB_HOST=db.internal\nDB_NAME=pos\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "File Seller", cfg.Seller.Name)
	assert.True(t, cfg.Database.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=pos")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load(config.WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_OverrideWins(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9000")

	cfg, err := config.Load(config.WithOverride("SERVER_ADDRESS", ":7000"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Address)
}

func TestLoad_SellerNameTooLong(t *testing.T) {
	t.Setenv("SELLER_NAME", strings.Repeat("x", 256))

	_, err := config.Load()
	require.Error(t, err)

	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "SELLER_NAME", valErr.Field)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("INVOICE_TIMEZONE", "Mars/Olympus")

	_, err := config.Load()
	require.Error(t, err)

	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "INVOICE_TIMEZONE", valErr.Field)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		Name:     "invoices",
		User:     "postgres",
		Password: "secret",
		SSLMode:  "disable",
		Timezone: "UTC",
	}

	assert.Equal(t,
		"host=localhost user=postgres password=secret dbname=invoices port=5432 sslmode=disable TimeZone=UTC",
		db.DSN())
}
