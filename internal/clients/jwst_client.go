package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"lyra/internal/api"
)

// JWSTClient - прямой клиент api.jwstapi.com, запасной источник
// изображений при недоступности вычислительного API
type JWSTClient interface {
	ProgramImages(ctx context.Context, programID string) ([]json.RawMessage, error)
}

type jwstClient struct {
	host   string
	apiKey string
	email  string
	base   *BaseClient
}

type JWSTConfig struct {
	Host       string
	APIKey     string
	Email      string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewJWSTClient(config JWSTConfig) JWSTClient {
	return &jwstClient{
		host:   strings.TrimRight(config.Host, "/"),
		apiKey: config.APIKey,
		email:  config.Email,
		base:   NewBaseClient(config.Timeout, config.Retries, config.RetryDelay),
	}
}

func (c *jwstClient) ProgramImages(ctx context.Context, programID string) ([]json.RawMessage, error) {
	headers := map[string]string{
		"x-api-key": c.apiKey,
	}
	if c.email != "" {
		headers["email"] = c.email
	}

	target := fmt.Sprintf("%s/images/program/%s", c.host, url.PathEscape(programID))
	body, err := c.base.Get(ctx, target, nil, headers)
	if err != nil {
		return nil, err
	}

	// JWST API заворачивает список в поле body
	var result struct {
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &api.UpstreamError{Body: string(body), Err: fmt.Errorf("decode JWST response: %w", err)}
	}
	return result.Body, nil
}
