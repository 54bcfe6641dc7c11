package clients

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"lyra/internal/api"
)

const userAgent = "Lyra-Dashboard/1.0"

// BaseClient - GET с retry-стратегией и линейным backoff (delay * attempt)
type BaseClient struct {
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
}

func NewBaseClient(timeout time.Duration, retries int, retryDelay time.Duration) *BaseClient {
	if retries < 1 {
		retries = 3
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &BaseClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// Get выполняет запрос с повторами; после исчерпания попыток возвращает
// одну обернутую ошибку с сообщением последнего сбоя
func (c *BaseClient) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	target := rawURL
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		log.Printf("HTTP GET %s attempt=%d/%d", target, attempt, c.retries)

		body, err := c.doGet(ctx, target, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Printf("HTTP GET %s attempt=%d failed: %v", target, attempt, err)

		if attempt < c.retries {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("GET %s canceled: %w", target, ctx.Err())
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}

	log.Printf("HTTP GET %s failed after %d attempts: %v", target, c.retries, lastErr)
	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", target, c.retries, lastErr)
}

func (c *BaseClient) doGet(ctx context.Context, target string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &api.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.UpstreamError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &api.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
