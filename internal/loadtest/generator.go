package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/popcast/pkg/logger"
)

// Ranges for generated census counts.
const (
	randomFloatDivisor = 1000000
	minPopulation      = 1000.0
	populationRange    = 500000.0
	maxGrowthRate      = 0.08
	minGrowthRate      = -0.02
)

// randReader is the entropy source for generated data.
var randReader io.Reader = rand.Reader

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() (float64, error) {
	n, err := rand.Int(randReader, big.NewInt(randomFloatDivisor))
	if err != nil {
		return 0, fmt.Errorf("read random number: %w", err)
	}
	return float64(n.Int64()) / float64(randomFloatDivisor), nil
}

// generateCensus creates n localities with unique names and plausible
// biennial counts.
func generateCensus(ctx context.Context, n int, stats *Stats) ([]Census, error) {
	logger.Get().Info(ctx, "generating census data", logger.Int("localities", n))

	out := make([]Census, n)
	for i := range out {
		c, err := generateSingleCensus("loc-" + uuid.NewString())
		if err != nil {
			return nil, err
		}
		out[i] = c
	}

	stats.LocalitiesGenerated = len(out)
	return out, nil
}

// generateSingleCensus grows a random starting count by a random rate per
// two-year interval, rounded to whole inhabitants.
func generateSingleCensus(name string) (Census, error) {
	c := Census{Locality: name}
	start, err := getRandomFloat()
	if err != nil {
		return Census{}, err
	}
	p := minPopulation + start*populationRange
	for i := range c.Populations {
		c.Populations[i] = float64(int64(p))
		r, err := getRandomFloat()
		if err != nil {
			return Census{}, err
		}
		p *= 1 + minGrowthRate + r*(maxGrowthRate-minGrowthRate)
	}
	return c, nil
}
