package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lyra/internal/cache"
	"lyra/internal/clients"
	"lyra/internal/models"
	"lyra/internal/repository"
)

const (
	issLastKey        = "iss:last"
	issLastTTL        = 5 * time.Minute
	issHistoryTTL     = 30 * time.Minute
	issHistoryKeyTmpl = "iss:history:%s:%s:%d"
)

type ISSService interface {
	GetCurrent(ctx context.Context) (*models.IssPosition, error)
	Refresh(ctx context.Context) (*models.IssPosition, error)
	GetHistory(ctx context.Context, startDate, endDate string, limit int) ([]models.IssPosition, error)
}

type issService struct {
	repo   repository.IssRepository
	cache  cache.Store
	client clients.ComputeClient
}

func NewISSService(
	repo repository.IssRepository,
	cacheStore cache.Store,
	client clients.ComputeClient,
) ISSService {
	return &issService{
		repo:   repo,
		cache:  cacheStore,
		client: client,
	}
}

// GetCurrent - текущая позиция МКС с кэшем на 5 минут.
// Ложный флаг во внешнем конверте превращается в UpstreamDataError
func (s *issService) GetCurrent(ctx context.Context) (*models.IssPosition, error) {
	var position models.IssPosition
	err := s.cache.Remember(ctx, issLastKey, issLastTTL, &position, func(ctx context.Context) (interface{}, error) {
		env, err := s.client.CurrentPosition(ctx)
		if err != nil {
			return nil, err
		}
		if err := env.Err(); err != nil {
			return nil, err
		}
		return decodePosition(env.Data)
	})
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// Refresh принудительно перечитывает позицию из источника: сбрасывает
// кэш, дергает /iss/fetch и фиксирует результат в журнале позиций
func (s *issService) Refresh(ctx context.Context) (*models.IssPosition, error) {
	if err := s.cache.Forget(ctx, issLastKey); err != nil {
		log.Printf("failed to invalidate %s: %v", issLastKey, err)
	}

	env, err := s.client.FetchPosition(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	position, err := decodePosition(env.Data)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, position); err != nil {
		return nil, fmt.Errorf("save ISS position: %w", err)
	}
	return position, nil
}

// GetHistory - история позиций с фильтрами, кэш 30 минут.
// Fallback-а нет: сбой upstream-а является жесткой ошибкой
func (s *issService) GetHistory(ctx context.Context, startDate, endDate string, limit int) ([]models.IssPosition, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	cacheKey := fmt.Sprintf(issHistoryKeyTmpl, startDate, endDate, limit)

	var positions []models.IssPosition
	err := s.cache.Remember(ctx, cacheKey, issHistoryTTL, &positions, func(ctx context.Context) (interface{}, error) {
		env, err := s.client.History(ctx, startDate, endDate, limit)
		if err != nil {
			return nil, err
		}
		if err := env.Err(); err != nil {
			return nil, err
		}

		var history []models.IssPosition
		if err := json.Unmarshal(env.Data, &history); err != nil {
			return nil, fmt.Errorf("decode ISS history: %w", err)
		}
		return history, nil
	})
	return positions, err
}

func decodePosition(raw json.RawMessage) (*models.IssPosition, error) {
	var position models.IssPosition
	if err := json.Unmarshal(raw, &position); err != nil {
		return nil, fmt.Errorf("decode ISS position: %w", err)
	}
	if position.FetchedAt.IsZero() {
		position.FetchedAt = time.Now().UTC()
	}
	return &position, nil
}
