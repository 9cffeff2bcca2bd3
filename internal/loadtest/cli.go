package loadtest

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/popcast/pkg/logger"
)

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well. verbose enables debug output.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Popcast Load Test Tool
======================

Submits generated census data concurrently to a running projection service,
then checks every stored projection and the workbook export.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:5000")
  -localities int
        Number of localities to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -base-year int
        Year of the first census count (default: read from /stats)
  -horizons string
        Comma-separated projection offsets, e.g. "7,8,9,10" (default: read from /stats)
  -export-sheet string
        Worksheet name of the export (default: read from /stats)
  -reset
        Clear the store before submitting
  -skip-export
        Do not download and check the workbook
  -output string
        Write the generated census data to this JSON file
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/loadtest -reset
  go run ./cmd/loadtest -localities 20000 -workers 16 -url http://localhost:8080
`)
}

// ParseHorizons splits a comma-separated list of year offsets.
// An empty string yields nil.
func ParseHorizons(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid horizon %q: %w", p, err)
		}
		out = append(out, h)
	}
	return out, nil
}
