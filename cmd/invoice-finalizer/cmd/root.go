package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-finalizer/internal/config"
	"github.com/rezonia/invoice-finalizer/internal/finalizer"
	"github.com/rezonia/invoice-finalizer/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	cfgFile      string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "invoice-finalizer",
	Short: "Finalize point-of-sale invoices and their e-invoice QR payloads",
	Long: `Invoice Finalizer computes invoice totals with 5% VAT, assigns invoice
numbers and builds the Base64 TLV payload printed as the e-invoice QR code.

Examples:
  # Finalize draft invoices
  invoice-finalizer finalize draft.json

  # Finalize a directory of drafts as a table
  invoice-finalizer finalize drafts/ -f table

  # Decode a QR payload
  invoice-finalizer decode AQhBY21lIExMQw...

  # Start the HTTP API
  invoice-finalizer serve --config finalizer.env`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (.env, .yaml, .json); environment variables override it")
}

// flagBindings maps command flags onto configuration keys
var flagBindings = []struct {
	flag string
	key  string
}{
	{"address", "SERVER_ADDRESS"},
	{"read-timeout", "SERVER_READ_TIMEOUT"},
	{"write-timeout", "SERVER_WRITE_TIMEOUT"},
	{"debug", "SERVER_DEBUG"},
}

// loadConfig reads configuration and installs the stderr logger.
// Flags set on the command line take precedence over env and config file.
func loadConfig(cmd *cobra.Command, args []string) error {
	opts := []config.LoadOption{config.WithConfigFile(cfgFile)}
	for _, b := range flagBindings {
		if f := cmd.Flags().Lookup(b.flag); f != nil && f.Changed {
			opts = append(opts, config.WithOverride(b.key, f.Value.String()))
		}
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	appConfig = cfg

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	l, err := logger.NewWithWriter(os.Stderr, level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	slog.SetDefault(l)

	printVerbose("Loaded configuration (env: %s)\n", cfg.App.Env)
	return nil
}

func newFinalizer() (*finalizer.Finalizer, error) {
	loc, err := appConfig.Invoice.Location()
	if err != nil {
		return nil, err
	}

	return finalizer.New(finalizer.Config{
		SellerName:  appConfig.Seller.Name,
		SellerTaxID: appConfig.Seller.TaxID,
		Prefix:      appConfig.Invoice.Prefix,
		Location:    loc,
	}), nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
