package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"lyra/internal/api"
	"lyra/internal/cache"
	"lyra/internal/clients"
	"lyra/internal/models"
	"lyra/internal/repository"
)

const (
	osdrListKeyTmpl    = "osdr:all:%d"
	osdrListKeyPattern = "osdr:all:*"
	osdrListTTL        = 30 * time.Minute
	osdrBatchSize      = 100
)

type OSDRService interface {
	Sync(ctx context.Context) (json.RawMessage, error)
	GetDatasets(ctx context.Context, limit int) ([]models.OsdrDataset, error)
}

type osdrService struct {
	repo   repository.OsdrRepository
	cache  cache.Store
	client clients.ComputeClient
}

func NewOSDRService(
	repo repository.OsdrRepository,
	cacheStore cache.Store,
	client clients.ComputeClient,
) OSDRService {
	return &osdrService{
		repo:   repo,
		cache:  cacheStore,
		client: client,
	}
}

// Sync сбрасывает кэш списков и запускает пакетную загрузку каталога
// на upstream-е. Payload ответа возвращается как есть, без маппинга
func (s *osdrService) Sync(ctx context.Context) (json.RawMessage, error) {
	if err := s.cache.ForgetPattern(ctx, osdrListKeyPattern); err != nil {
		log.Printf("failed to invalidate OSDR list cache: %v", err)
	}

	env, err := s.client.SyncDatasets(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetDatasets - список датасетов с кэшем 30 минут.
// Порядок fallback-а: upstream-список, при его ошибке - содержимое БД;
// ложный success-флаг (без ошибки) дает пустой список, БД не трогается
func (s *osdrService) GetDatasets(ctx context.Context, limit int) ([]models.OsdrDataset, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}

	cacheKey := fmt.Sprintf(osdrListKeyTmpl, limit)

	var datasets []models.OsdrDataset
	err := s.cache.Remember(ctx, cacheKey, osdrListTTL, &datasets, func(ctx context.Context) (interface{}, error) {
		env, err := s.client.ListDatasets(ctx)
		if err != nil {
			var ue *api.UpstreamError
			if errors.As(err, &ue) {
				log.Printf("OSDR upstream failed, falling back to database: %v", err)
				return s.repo.GetAll(ctx, limit)
			}
			return nil, err
		}

		if !env.OK {
			return []models.OsdrDataset{}, nil
		}

		var rawItems []json.RawMessage
		if err := json.Unmarshal(env.Data, &rawItems); err != nil {
			return nil, fmt.Errorf("decode OSDR list: %w", err)
		}

		// Исходный payload каждого элемента уходит в jsonb-колонку
		items := make([]models.OsdrDataset, 0, len(rawItems))
		for _, raw := range rawItems {
			var item models.OsdrDataset
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("decode OSDR dataset: %w", err)
			}
			item.Raw = datatypes.JSON(raw)
			items = append(items, item)
		}
		if len(items) > limit {
			items = items[:limit]
		}

		// Обновляем локальный каталог свежими данными
		if _, err := s.repo.BatchUpsert(ctx, items, osdrBatchSize); err != nil {
			log.Printf("failed to refresh OSDR catalog: %v", err)
		}
		return items, nil
	})
	return datasets, err
}
