package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"lyra/internal/api"
)

// AstroClient - клиент AstronomyAPI с Basic-авторизацией
type AstroClient interface {
	Events(ctx context.Context, lat, lon float64, days int) (map[string]interface{}, error)
	Bodies(ctx context.Context) (map[string]interface{}, error)
	MoonPhase(ctx context.Context, date time.Time) (map[string]interface{}, error)
}

type astroClient struct {
	appID   string
	secret  string
	baseURL string
	base    *BaseClient
}

type AstroConfig struct {
	AppID      string
	Secret     string
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewAstroClient(config AstroConfig) AstroClient {
	return &astroClient{
		appID:   config.AppID,
		secret:  config.Secret,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		base:    NewBaseClient(config.Timeout, config.Retries, config.RetryDelay),
	}
}

func (c *astroClient) headers() map[string]string {
	auth := base64.StdEncoding.EncodeToString([]byte(c.appID + ":" + c.secret))
	return map[string]string{
		"Authorization": "Basic " + auth,
	}
}

func (c *astroClient) getJSON(ctx context.Context, target string, params url.Values) (map[string]interface{}, error) {
	body, err := c.base.Get(ctx, target, params, c.headers())
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &api.UpstreamError{Body: string(body), Err: fmt.Errorf("decode AstronomyAPI response: %w", err)}
	}
	return data, nil
}

func (c *astroClient) Events(ctx context.Context, lat, lon float64, days int) (map[string]interface{}, error) {
	from := time.Now().UTC().Format("2006-01-02")
	to := time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("from", from)
	params.Set("to", to)

	return c.getJSON(ctx, c.baseURL+"/bodies/events", params)
}

func (c *astroClient) Bodies(ctx context.Context) (map[string]interface{}, error) {
	return c.getJSON(ctx, c.baseURL+"/bodies", nil)
}

func (c *astroClient) MoonPhase(ctx context.Context, date time.Time) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))
	return c.getJSON(ctx, c.baseURL+"/moon-phase", params)
}
