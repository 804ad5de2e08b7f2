package seedevents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tempohq/tempo/pkg/logger"
)

// httpClient wraps http.Client with a timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

func (c *httpClient) post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// submitEvents submits events concurrently using a worker pool.
func submitEvents(ctx context.Context, config *Config, events []Event, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting events",
		logger.Int("events", len(events)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/events"

	var successful, duplicate, failed int64

	eventChan := make(chan Event, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range eventChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				resp, err := client.post(ctx, url, event)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "submit failed", logger.Error(err))
					}
					continue
				}

				switch resp.StatusCode {
				case http.StatusAccepted:
					atomic.AddInt64(&successful, 1)
				case http.StatusOK:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				drainAndClose(resp)
			}
		}()
	}

	for _, event := range events {
		select {
		case eventChan <- event:
		case <-ctx.Done():
			close(eventChan)
			return ctx.Err()
		}
	}
	close(eventChan)
	wg.Wait()

	stats.EventsSubmitted = len(events)
	stats.EventsSuccessful = int(successful)
	stats.EventsDuplicate = int(duplicate)
	stats.EventsFailed = int(failed)

	log.Info(ctx, "submission complete",
		logger.Int("successful", stats.EventsSuccessful),
		logger.Int("duplicate", stats.EventsDuplicate),
		logger.Int("failed", stats.EventsFailed),
	)
	return nil
}

// fetchScores reads one scorecard per user so a seeding run ends with
// visible output.
func fetchScores(ctx context.Context, config *Config, users []string, stats *Stats) error {
	log := logger.Get()
	client := newHTTPClient(config.Timeout)

	for _, userID := range users {
		resp, err := client.get(ctx, config.BaseURL+"/scores/"+userID+"?family=intelligence&range=weekly")
		if err != nil {
			log.Warn(ctx, "score fetch failed", logger.String("userID", userID), logger.Error(err))
			continue
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			log.Warn(ctx, "score fetch failed",
				logger.String("userID", userID),
				logger.Int("status", resp.StatusCode),
			)
			continue
		}
		stats.ScoresFetched++
		if config.Verbose {
			log.Info(ctx, "scorecard", logger.String("userID", userID), logger.String("body", string(body)))
		}
	}
	return nil
}

// checkServiceHealth verifies that the service answers before seeding.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", config.BaseURL, err)
	}
	drainAndClose(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", resp.StatusCode)
	}
	return nil
}
