package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	money "github.com/rezonia/invoice-finalizer/internal/decimal"
	"github.com/rezonia/invoice-finalizer/internal/finalizer"
	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
)

var outputFile string

var finalizeCmd = &cobra.Command{
	Use:   "finalize [files...]",
	Short: "Finalize draft invoice files",
	Long: `Finalize one or more draft invoices stored as JSON files.

A draft looks like:
  {
    "number": "",              // optional, generated when blank
    "prefix": "INV-",          // optional
    "seller_name": "",         // optional, SELLER_NAME when blank
    "seller_tax_id": "",       // optional, SELLER_TAX_ID when blank
    "issued_at": "2025-01-15T10:00:00Z",  // optional, now when absent
    "items": [{"name": "Widget", "quantity": "2", "unit_price": "10.00"}]
  }

Examples:
  invoice-finalizer finalize draft.json
  invoice-finalizer finalize drafts/*.json -o finalized.json
  invoice-finalizer finalize drafts/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFinalize,
}

func init() {
	rootCmd.AddCommand(finalizeCmd)

	finalizeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
}

func runFinalize(cmd *cobra.Command, args []string) error {
	// Collect all files to finalize
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to finalize")
	}

	printVerbose("Found %d files to finalize\n", len(files))

	fin, err := newFinalizer()
	if err != nil {
		return err
	}

	results := make([]*FinalizeResult, 0, len(files))
	for _, file := range files {
		printVerbose("Finalizing: %s\n", file)

		result := finalizeFile(fin, file)
		results = append(results, result)

		if result.Error != "" {
			printVerbose("  Error: %s\n", result.Error)
		} else {
			printVerbose("  Number: %s, Gross: %s\n", result.Invoice.Number, money.FormatAmount(result.Invoice.Totals.Gross()))
		}
	}

	return withOutput(cmd.OutOrStdout(), func(w io.Writer) error {
		switch outputFormat {
		case "json":
			return outputJSON(w, results)
		case "table":
			return outputFinalizeTable(w, results)
		case "csv":
			return outputFinalizeCSV(w, results)
		default:
			return fmt.Errorf("unsupported output format: %s", outputFormat)
		}
	})
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		// Check if it's a glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("file not found: %s", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}

			if !info.IsDir() {
				files = append(files, match)
				continue
			}

			// Walk directory
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isDraftFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func isDraftFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func finalizeFile(fin *finalizer.Finalizer, filePath string) *FinalizeResult {
	result := &FinalizeResult{
		File: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	var draft finalizer.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		result.Error = fmt.Sprintf("invalid draft: %v", err)
		return result
	}

	inv, err := fin.Finalize(draft)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Invoice = inv
	result.Gross = money.FormatAmount(inv.Totals.Gross())

	fields, err := fin.ReadQR(inv)
	if err == nil {
		result.QRFields = fields
	}

	return result
}

// withOutput writes to --output when set, w otherwise
func withOutput(w io.Writer, fn func(io.Writer) error) error {
	if outputFile == "" {
		return fn(w)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return fn(f)
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputFinalizeTable(w io.Writer, results []*FinalizeResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tNUMBER\tISSUED\tNET\tTAX\tGROSS\tQR")
	fmt.Fprintln(tw, "----\t------\t------\t---\t---\t-----\t--")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}

		inv := r.Invoice
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.File,
			inv.Number,
			finalizer.FormatTimestamp(inv.IssuedAt),
			money.FormatAmount(inv.Totals.Net),
			money.FormatAmount(inv.Totals.Tax),
			r.Gross,
			inv.QRCode,
		)
	}

	return tw.Flush()
}

func outputFinalizeCSV(w io.Writer, results []*FinalizeResult) error {
	fmt.Fprintln(w, "file,number,issued_at,seller_name,seller_tax_id,net,tax,gross,qr_code,error")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s,,,,,,,,,%s\n", escapeCSV(r.File), escapeCSV(r.Error))
			continue
		}

		inv := r.Invoice
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s,%s,\n",
			escapeCSV(r.File),
			escapeCSV(inv.Number),
			finalizer.FormatTimestamp(inv.IssuedAt),
			escapeCSV(inv.Seller.Name),
			escapeCSV(inv.Seller.TaxID),
			money.FormatAmount(inv.Totals.Net),
			money.FormatAmount(inv.Totals.Tax),
			r.Gross,
			inv.QRCode,
		)
	}

	return nil
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}

// FinalizeResult holds the result of finalizing a single file
type FinalizeResult struct {
	File     string         `json:"file"`
	Invoice  *model.Invoice `json:"invoice,omitempty"`
	Gross    string         `json:"gross_total,omitempty"`
	QRFields *tlv.Fields    `json:"qr_fields,omitempty"`
	Error    string         `json:"error,omitempty"`
}
