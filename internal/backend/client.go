package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"andon-console/config"
	"andon-console/internal/record"
)

var (
	// ErrMalformedPayload is returned when a response is not a JSON array.
	ErrMalformedPayload = errors.New("backend: malformed payload")
	// ErrNoBackend is returned when no base URL is configured and discovery
	// is disabled.
	ErrNoBackend = errors.New("backend: no base url configured")
)

// Resolver finds the backend's base URL at runtime.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Client fetches call and department records from the management backend.
type Client struct {
	cfg      *config.BackendConfig
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	resolver Resolver

	mu       sync.Mutex
	resolved string
}

// NewClient creates a backend client. resolver may be nil, in which case
// cfg.BaseURL must be set.
func NewClient(cfg *config.BackendConfig, resolver Resolver) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Backend client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxFailures := cfg.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Interval:    time.Duration(cfg.Breaker.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.Breaker.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("backend: circuit breaker %s changed from %s to %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		breaker:  breaker,
		resolver: resolver,
	}
}

// wireCall mirrors one entry of the calls endpoint. Pointer fields detect
// missing keys.
type wireCall struct {
	Status      *string `json:"status"`
	Description *string `json:"mancalldesc"`
	Recipient   *string `json:"mancallto"`
}

type wireDept struct {
	Name *string `json:"deptname"`
	ID   *int    `json:"deptid"`
}

// FetchCalls implements record.Fetcher.
func (c *Client) FetchCalls(ctx context.Context) ([]record.CallRecord, error) {
	entries, err := c.fetchArray(ctx, c.cfg.CallsPath)
	if err != nil {
		return nil, err
	}
	out := make([]record.CallRecord, 0, len(entries))
	for i, raw := range entries {
		var w wireCall
		if err := json.Unmarshal(raw, &w); err != nil || w.Status == nil || w.Description == nil || w.Recipient == nil {
			log.Printf("backend: skipping call entry %d: %s", i, raw)
			continue
		}
		out = append(out, record.CallRecord{
			Status:      *w.Status,
			Description: *w.Description,
			Recipient:   *w.Recipient,
		})
	}
	return out, nil
}

// FetchDepartments implements record.Fetcher.
func (c *Client) FetchDepartments(ctx context.Context) ([]record.DeptRecord, error) {
	entries, err := c.fetchArray(ctx, c.cfg.DepartmentsPath)
	if err != nil {
		return nil, err
	}
	out := make([]record.DeptRecord, 0, len(entries))
	for i, raw := range entries {
		var w wireDept
		if err := json.Unmarshal(raw, &w); err != nil || w.Name == nil || w.ID == nil {
			log.Printf("backend: skipping department entry %d: %s", i, raw)
			continue
		}
		out = append(out, record.DeptRecord{Name: *w.Name, ID: *w.ID})
	}
	return out, nil
}

func (c *Client) fetchArray(ctx context.Context, path string) ([]json.RawMessage, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, path)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("backend circuit open: %w", err)
		}
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	base, err := c.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.forgetResolved()
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	limit := c.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = 64 << 10
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return body, nil
}

// baseURL returns the configured base URL, or the discovered one.
func (c *Client) baseURL(ctx context.Context) (string, error) {
	if c.cfg.BaseURL != "" {
		return strings.TrimRight(c.cfg.BaseURL, "/"), nil
	}
	if c.resolver == nil {
		return "", ErrNoBackend
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved != "" {
		return c.resolved, nil
	}
	base, err := c.resolver.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to discover backend: %w", err)
	}
	c.resolved = strings.TrimRight(base, "/")
	log.Printf("backend: discovered at %s", c.resolved)
	return c.resolved, nil
}

// forgetResolved drops a discovered address so the next fetch looks again.
func (c *Client) forgetResolved() {
	c.mu.Lock()
	c.resolved = ""
	c.mu.Unlock()
}
