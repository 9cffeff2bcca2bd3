package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/popcast/internal/loadtest"
)

// Default configuration constants.
const (
	defaultLocalities  = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:5000", "Base URL of the service")
		localities = flag.Int("localities", defaultLocalities, "Number of localities to generate and submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		baseYear   = flag.Int("base-year", 0, "Year of the first census count (0 reads it from the service)")
		horizons   = flag.String("horizons", "", "Comma-separated projection offsets (empty reads them from the service)")
		sheet      = flag.String("export-sheet", "", "Worksheet name of the export (empty reads it from the service)")
		reset      = flag.Bool("reset", false, "Clear the store before submitting")
		skipExport = flag.Bool("skip-export", false, "Do not download and check the workbook")
		outputFile = flag.String("output", "", "Write the generated census data to this JSON file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	closer, err := loadtest.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	offsets, err := loadtest.ParseHorizons(*horizons)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:       *baseURL,
		NumLocalities: max(*localities, 1),
		Workers:       max(*workers, 1),
		Timeout:       *timeout,
		BaseYear:      *baseYear,
		Horizons:      offsets,
		ExportSheet:   *sheet,
		Reset:         *reset,
		SkipExport:    *skipExport,
		OutputFile:    *outputFile,
		Verbose:       *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel already called
	}
}
