package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-finalizer/internal/server"
	"github.com/rezonia/invoice-finalizer/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for finalizing invoices.

The API provides endpoints for:
  - POST /api/v1/invoices/finalize  - Finalize a draft invoice
  - GET  /api/v1/invoices           - List finalized invoices
  - GET  /api/v1/invoices/:number   - Get invoice with decoded QR fields
  - POST /api/v1/qr/encode          - Encode a QR payload
  - POST /api/v1/qr/decode          - Decode a QR payload
  - GET  /health                    - Health check

Invoices are stored in PostgreSQL when DB_HOST is set, in memory otherwise.

Examples:
  # Start server on default port
  invoice-finalizer serve

  # Start on custom port with a config file
  invoice-finalizer serve --address :9090 --config finalizer.env

  # Start in debug mode
  invoice-finalizer serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", "", "Server listen address (env: SERVER_ADDRESS)")
	serveCmd.Flags().Bool("debug", false, "Enable debug mode (env: SERVER_DEBUG)")
	serveCmd.Flags().Duration("read-timeout", 0, "HTTP read timeout (env: SERVER_READ_TIMEOUT)")
	serveCmd.Flags().Duration("write-timeout", 0, "HTTP write timeout (env: SERVER_WRITE_TIMEOUT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:        appConfig.Server.Address,
		ReadTimeout:    appConfig.Server.ReadTimeout,
		WriteTimeout:   appConfig.Server.WriteTimeout,
		AllowedOrigins: appConfig.CORS.AllowedOrigins,
		RateLimit:      appConfig.Server.RateLimit,
		RateBurst:      appConfig.Server.RateBurst,
		Debug:          appConfig.Server.Debug,
	}

	fin, err := newFinalizer()
	if err != nil {
		return err
	}

	repo, err := openRepository(config.Debug)
	if err != nil {
		return err
	}

	srv := server.NewServer(config, fin, repo, server.WithLogger(slog.Default()))

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting server on %s\n", config.Address)
	if fin.Config().SellerTaxID == "" {
		fmt.Println("Warning: SELLER_TAX_ID is not set; drafts must carry seller_tax_id")
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Println("\nServer stopped")
	return nil
}

func openRepository(debug bool) (store.Repository, error) {
	if !appConfig.Database.Enabled() {
		slog.Warn("DB_HOST not set, invoices are kept in memory")
		return store.NewMemoryRepository(), nil
	}

	db, err := store.Open(&appConfig.Database, debug)
	if err != nil {
		return nil, err
	}
	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}
	return store.NewGormRepository(db), nil
}
