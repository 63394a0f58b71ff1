// Command invoices-import loads invoices from a JSON file into the SQLite
// database at SQLITE_DB_PATH.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/cli"
	applog "github.com/kondetiramya/AccountingTestProject/internal/log"
	"github.com/kondetiramya/AccountingTestProject/internal/sheets"
	"github.com/kondetiramya/AccountingTestProject/internal/storage"
)

func main() {
	file := flag.String("file", "", "JSON file holding an array of invoices")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentImport)
	cfg := cli.LoadAndValidateConfig(logger)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: invoices-import -file invoices.json")
		os.Exit(2)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	n, err := importFile(ctx, *file, repo)
	if err != nil {
		logger.Error("Import failed", applog.FieldError, err, "file", *file)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("Import complete",
		applog.FieldInvoices, n,
		applog.FieldDuration, time.Since(start).Milliseconds(),
		"file", *file)
}

// importFile decodes path and saves every invoice in one batch.
func importFile(ctx context.Context, path string, w sheets.InvoiceWriter) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	invoices, err := sheets.DecodeInvoices(f)
	if err != nil {
		return 0, err
	}
	if err := w.SaveInvoices(ctx, invoices); err != nil {
		return 0, fmt.Errorf("save invoices: %w", err)
	}
	return len(invoices), nil
}
