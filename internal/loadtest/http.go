package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/popcast/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with an optional JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

type submitResult int

const (
	resultSuccess submitResult = iota
	resultRejected
	resultFailed
)

// submitCensus posts every census concurrently to the add-locality route.
func submitCensus(ctx context.Context, config *Config, census []Census, stats *Stats) {
	logger.Get().Info(ctx, "submitting localities",
		logger.Int("localities", len(census)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/ajouter_ville"

	var successful, rejected, failed, submitted atomic.Int64

	jobs := make(chan Census, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				res := submitSingleCensus(ctx, client, url, config.BaseYear, c)
				n := submitted.Add(1)
				switch res {
				case resultSuccess:
					successful.Add(1)
				case resultRejected:
					rejected.Add(1)
				default:
					failed.Add(1)
				}
				if config.Verbose && n%progressEvery == 0 {
					logger.Get().Debug(ctx, "submission progress",
						logger.Int("submitted", int(n)),
						logger.Int("total", len(census)))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range census {
			select {
			case <-ctx.Done():
				return
			case jobs <- c:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Successful = int(successful.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())

	logger.Get().Info(ctx, "submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
}

// submitSingleCensus posts one census and classifies the response.
func submitSingleCensus(ctx context.Context, client *HTTPClient, url string, baseYear int, c Census) submitResult {
	body := map[string]any{"nom_ville": c.Locality}
	for i, p := range c.Populations {
		body["population_"+strconv.Itoa(baseYear+i*sampleInterval)] = p
	}

	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return resultFailed
	}
	if _, err := readResponseBody(resp); err != nil {
		return resultFailed
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resultSuccess
	case http.StatusBadRequest:
		return resultRejected
	default:
		return resultFailed
	}
}

// fetchRecords downloads the full store listing.
func fetchRecords(ctx context.Context, config *Config) (map[string]Record, error) {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/api/get_villes")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch localities: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read localities: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch localities failed with status: %d", resp.StatusCode)
	}

	var out map[string]Record
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode localities: %w", err)
	}
	return out, nil
}

// resetStore clears the remote store.
func resetStore(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Post(ctx, config.BaseURL+"/api/reinitialiser", nil)
	if err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read reset response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reset failed with status: %d", resp.StatusCode)
	}
	return nil
}

// downloadExport fetches the workbook.
func downloadExport(ctx context.Context, config *Config) ([]byte, error) {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/api/export_excel")
	if err != nil {
		return nil, fmt.Errorf("failed to download export: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export failed with status: %d", resp.StatusCode)
	}
	return body, nil
}
