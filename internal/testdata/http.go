package testdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/pkg/logger"
)

// HTTP status code constants.
const (
	statusOK = 200
)

// view is the part of the dashboard view the driver inspects.
type view struct {
	Seq        uint64               `json:"seq"`
	Selection  []string             `json:"selection"`
	Rows       int                  `json:"rows"`
	Aggregates []model.AggregateRow `json:"aggregates"`
}

type selectionRequest struct {
	Circuits []string `json:"circuits"`
}

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request and decodes a JSON body into out.
func (c *HTTPClient) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

// Post performs a POST request with a JSON body and decodes the reply into out.
func (c *HTTPClient) Post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// exercise posts cfg.Selections random circuit subsets from cfg.Workers workers and
// checks the dashboard ends on a view at least as new as any it returned, with
// grid shares that add up.
func exercise(ctx context.Context, cfg *Config, stats *Stats) error {
	client := newHTTPClient(cfg.Timeout)

	var options []model.Option
	if err := client.Get(ctx, cfg.BaseURL+"/api/options", &options); err != nil {
		return fmt.Errorf("failed to fetch options: %w", err)
	}
	if len(options) == 0 {
		return fmt.Errorf("dashboard reports no circuits")
	}
	logger.Get().Info(ctx, "posting selections",
		logger.Int("selections", cfg.Selections),
		logger.Int("workers", cfg.Workers),
		logger.Int("circuits", len(options)))

	var (
		posted  int64
		failed  int64
		highest atomic.Uint64
	)

	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				var v view
				err := client.Post(ctx, cfg.BaseURL+"/api/selection", selectionRequest{Circuits: pick(cfg.Seed, i, options)}, &v)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "selection failed", logger.Int("request", i), logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&posted, 1)
				for {
					cur := highest.Load()
					if v.Seq <= cur || highest.CompareAndSwap(cur, v.Seq) {
						break
					}
				}
			}
		}()
	}

	for i := 0; i < cfg.Selections; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	stats.SelectionsPosted = int(posted)
	stats.SelectionsFailed = int(failed)
	stats.HighestSeq = highest.Load()

	var final view
	if err := client.Get(ctx, cfg.BaseURL+"/api/view", &final); err != nil {
		return fmt.Errorf("failed to fetch final view: %w", err)
	}
	stats.DisplayedSeq = final.Seq

	if final.Seq < stats.HighestSeq {
		return fmt.Errorf("displayed view %d is older than returned view %d", final.Seq, stats.HighestSeq)
	}
	if err := verifyShares(final.Aggregates); err != nil {
		return fmt.Errorf("displayed view %d: %w", final.Seq, err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d selections failed", failed, cfg.Selections)
	}
	return nil
}

// pick returns a reproducible, possibly empty, subset of options for request i.
func pick(seed int64, i int, options []model.Option) []string {
	rng := rand.New(rand.NewSource(seed ^ int64(i+1)*7919)) //nolint:gosec // reproducible test data
	out := make([]string, 0, len(options))
	for _, o := range options {
		if rng.Intn(2) == 0 {
			out = append(out, o.Value)
		}
	}
	return out
}
