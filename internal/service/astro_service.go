package service

import (
	"context"
	"fmt"
	"time"

	"lyra/internal/cache"
	"lyra/internal/clients"
)

const (
	astroEventsKeyTmpl = "astronomy:events:%.4f:%.4f:%d"
	astroEventsTTL     = time.Hour
	astroBodiesKey     = "astronomy:bodies"
	astroBodiesTTL     = 24 * time.Hour
	astroMoonKeyTmpl   = "astronomy:moon_phase:%s"
	astroMoonTTL       = 24 * time.Hour
)

type AstroService interface {
	GetEvents(ctx context.Context, lat, lon float64, days int) (map[string]interface{}, error)
	GetBodies(ctx context.Context) (map[string]interface{}, error)
	GetMoonPhase(ctx context.Context, date time.Time) (map[string]interface{}, error)
}

type astroService struct {
	cache  cache.Store
	client clients.AstroClient
}

func NewAstroService(cacheStore cache.Store, client clients.AstroClient) AstroService {
	return &astroService{
		cache:  cacheStore,
		client: client,
	}
}

// GetEvents - события AstronomyAPI с кэшем на час. Payload не
// интерпретируется, перед использованием проверяется только HasRows
func (s *astroService) GetEvents(ctx context.Context, lat, lon float64, days int) (map[string]interface{}, error) {
	if days < 1 || days > 30 {
		days = 7
	}

	cacheKey := fmt.Sprintf(astroEventsKeyTmpl, lat, lon, days)

	var events map[string]interface{}
	err := s.cache.Remember(ctx, cacheKey, astroEventsTTL, &events, func(ctx context.Context) (interface{}, error) {
		return s.client.Events(ctx, lat, lon, days)
	})
	return events, err
}

func (s *astroService) GetBodies(ctx context.Context) (map[string]interface{}, error) {
	var bodies map[string]interface{}
	err := s.cache.Remember(ctx, astroBodiesKey, astroBodiesTTL, &bodies, func(ctx context.Context) (interface{}, error) {
		return s.client.Bodies(ctx)
	})
	return bodies, err
}

func (s *astroService) GetMoonPhase(ctx context.Context, date time.Time) (map[string]interface{}, error) {
	cacheKey := fmt.Sprintf(astroMoonKeyTmpl, date.Format("2006-01-02"))

	var phase map[string]interface{}
	err := s.cache.Remember(ctx, cacheKey, astroMoonTTL, &phase, func(ctx context.Context) (interface{}, error) {
		return s.client.MoonPhase(ctx, date)
	})
	return phase, err
}

// HasRows проверяет, что в payload событий есть непустая таблица строк
// (data.table.rows); это единственная проверка перед использованием
func HasRows(payload map[string]interface{}) bool {
	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		return false
	}
	table, ok := data["table"].(map[string]interface{})
	if !ok {
		return false
	}
	rows, ok := table["rows"].([]interface{})
	return ok && len(rows) > 0
}
