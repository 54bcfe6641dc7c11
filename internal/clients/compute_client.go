package clients

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ComputeClient - клиент вычислительного API (позиции МКС, каталог OSDR,
// изображения JWST); все ответы приходят в конверте ok/success
type ComputeClient interface {
	CurrentPosition(ctx context.Context) (*UpstreamEnvelope, error)
	FetchPosition(ctx context.Context) (*UpstreamEnvelope, error)
	History(ctx context.Context, startDate, endDate string, limit int) (*UpstreamEnvelope, error)
	SyncDatasets(ctx context.Context) (*UpstreamEnvelope, error)
	ListDatasets(ctx context.Context) (*UpstreamEnvelope, error)
	ProgramImages(ctx context.Context, programID string) (*UpstreamEnvelope, error)
	Raw(ctx context.Context, path string, query url.Values) ([]byte, error)
}

type computeClient struct {
	baseURL string
	base    *BaseClient
}

type ComputeConfig struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewComputeClient(config ComputeConfig) ComputeClient {
	return &computeClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		base:    NewBaseClient(config.Timeout, config.Retries, config.RetryDelay),
	}
}

func (c *computeClient) get(ctx context.Context, path string, params url.Values) (*UpstreamEnvelope, error) {
	body, err := c.base.Get(ctx, c.baseURL+path, params, nil)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope(body)
}

func (c *computeClient) CurrentPosition(ctx context.Context) (*UpstreamEnvelope, error) {
	return c.get(ctx, "/iss/current", nil)
}

func (c *computeClient) FetchPosition(ctx context.Context) (*UpstreamEnvelope, error) {
	return c.get(ctx, "/iss/fetch", nil)
}

func (c *computeClient) History(ctx context.Context, startDate, endDate string, limit int) (*UpstreamEnvelope, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	return c.get(ctx, "/iss/history", params)
}

func (c *computeClient) SyncDatasets(ctx context.Context) (*UpstreamEnvelope, error) {
	return c.get(ctx, "/osdr/sync", nil)
}

func (c *computeClient) ListDatasets(ctx context.Context) (*UpstreamEnvelope, error) {
	return c.get(ctx, "/osdr/list", nil)
}

func (c *computeClient) ProgramImages(ctx context.Context, programID string) (*UpstreamEnvelope, error) {
	return c.get(ctx, fmt.Sprintf("/jwst/images/%s", url.PathEscape(programID)), nil)
}

// Raw - сквозной запрос без разбора конверта, используется прокси-эндпоинтом
func (c *computeClient) Raw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.base.Get(ctx, c.baseURL+"/"+strings.TrimLeft(path, "/"), query, nil)
}
