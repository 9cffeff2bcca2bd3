package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/popcast/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrVerification is returned when stored results disagree with local
// recomputation.
var ErrVerification = errors.New("verification failed")

// Run executes the complete load test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting popcast load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("localities", config.NumLocalities),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("baseYear", config.BaseYear))

	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	if err := discoverSettings(ctx, config); err != nil {
		return stats, err
	}

	if config.Reset {
		if err := resetStore(ctx, config); err != nil {
			return stats, err
		}
	}

	census, err := generateCensus(ctx, config.NumLocalities, stats)
	if err != nil {
		return stats, fmt.Errorf("census generation failed: %w", err)
	}
	submitCensus(ctx, config, census, stats)

	records, err := fetchRecords(ctx, config)
	if err != nil {
		return stats, err
	}
	verifyErr := verifyRecords(ctx, config, census, records, stats)

	if !config.SkipExport {
		data, err := downloadExport(ctx, config)
		if err != nil {
			return stats, err
		}
		if err := verifyExport(ctx, data, config.ExportSheet, len(records), stats); err != nil {
			verifyErr = firstOf(verifyErr, err)
		}
	}

	if config.OutputFile != "" {
		if err := saveCensusToFile(ctx, config.OutputFile, census); err != nil {
			logger.Get().Warn(ctx, "failed to save census data to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, fmt.Errorf("%w: %w", ErrVerification, verifyErr)
	}
	logger.Get().Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// The service answers with its Prometheus exposition
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// discoverSettings fills the base year, horizons and export sheet left
// unset in config from the service's /stats report.
func discoverSettings(ctx context.Context, config *Config) error {
	if config.BaseYear > 0 && len(config.Horizons) > 0 && config.ExportSheet != "" {
		return nil
	}

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/stats")
	if err != nil {
		return fmt.Errorf("failed to fetch service settings: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read service settings: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats request failed with status: %d", resp.StatusCode)
	}

	var s serviceSettings
	if err := json.Unmarshal(body, &s); err != nil {
		return fmt.Errorf("failed to decode service settings: %w", err)
	}
	if config.BaseYear <= 0 {
		config.BaseYear = s.BaseYear
	}
	if len(config.Horizons) == 0 {
		config.Horizons = s.Horizons
	}
	if config.ExportSheet == "" {
		config.ExportSheet = s.ExportSheet
	}

	logger.Get().Info(ctx, "service settings",
		logger.Int("baseYear", config.BaseYear),
		logger.Any("horizons", config.Horizons),
		logger.String("exportSheet", config.ExportSheet))
	return nil
}

// saveCensusToFile writes the generated census data as a JSON array.
func saveCensusToFile(ctx context.Context, filename string, census []Census) error {
	if len(census) == 0 {
		return errors.New("no census data to save")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(census, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal census data: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "census data saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("localitiesGenerated", stats.LocalitiesGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("verified", stats.Verified),
		logger.Int("mismatched", stats.Mismatched),
		logger.Int("exportRows", stats.ExportRows),
		logger.Int("exportBytes", stats.ExportBytes),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", perSecond))
}
