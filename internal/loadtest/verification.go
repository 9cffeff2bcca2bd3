package loadtest

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/okian/popcast/internal/domain/model"
	"github.com/okian/popcast/internal/domain/projection"
	"github.com/okian/popcast/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// verifyRecords recomputes every submitted projection locally and compares
// it with what the service stored.
func verifyRecords(ctx context.Context, config *Config, census []Census, records map[string]Record, stats *Stats) error {
	logger.Get().Info(ctx, "verifying projections", logger.Int("localities", len(census)))

	engine := projection.NewEngine(
		projection.WithBaseYear(config.BaseYear),
		projection.WithHorizons(config.Horizons),
	)

	var firstErr error
	for _, c := range census {
		got, ok := records[c.Locality]
		if !ok {
			stats.Mismatched++
			if firstErr == nil {
				firstErr = fmt.Errorf("locality %q missing from listing", c.Locality)
			}
			continue
		}

		want := engine.Project(ctx, model.Census{Locality: c.Locality, Populations: c.Populations})
		if err := compareRecord(want.Coefficients.A, got.Coefficients.A, "a"); err != nil {
			stats.Mismatched++
			firstErr = firstOf(firstErr, fmt.Errorf("%s: %w", c.Locality, err))
			continue
		}
		if err := compareRecord(want.Coefficients.B, got.Coefficients.B, "b"); err != nil {
			stats.Mismatched++
			firstErr = firstOf(firstErr, fmt.Errorf("%s: %w", c.Locality, err))
			continue
		}

		mismatch := false
		for year, w := range want.Projections {
			if err := compareRecord(w, got.Projections[year], fmt.Sprint(year)); err != nil {
				stats.Mismatched++
				firstErr = firstOf(firstErr, fmt.Errorf("%s: %w", c.Locality, err))
				mismatch = true
				break
			}
		}
		if !mismatch {
			stats.Verified++
		}
	}

	if config.Verbose {
		logger.Get().Debug(ctx, "verification details",
			logger.Int("verified", stats.Verified),
			logger.Int("mismatched", stats.Mismatched))
	}
	return firstErr
}

// verifyExport checks the sheet has a header plus one row per stored locality.
func verifyExport(ctx context.Context, data []byte, sheet string, stored int, stats *Stats) error {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("workbook has no sheet %q", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read workbook rows: %w", err)
	}

	stats.ExportBytes = len(data)
	stats.ExportRows = len(rows) - 1
	logger.Get().Info(ctx, "export verified",
		logger.Int("bytes", stats.ExportBytes),
		logger.Int("rows", stats.ExportRows))

	if stats.ExportRows != stored {
		return fmt.Errorf("workbook has %d rows, store has %d localities", stats.ExportRows, stored)
	}
	return nil
}

func compareRecord(want, got float64, field string) error {
	scale := math.Max(1, math.Abs(want))
	if math.Abs(want-got) > relativeTolerance*scale {
		return fmt.Errorf("%s: want %.6f, got %.6f", field, want, got)
	}
	return nil
}

func firstOf(cur, next error) error {
	if cur != nil {
		return cur
	}
	return next
}
