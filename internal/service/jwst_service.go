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
)

const (
	jwstImagesKeyTmpl = "jwst:images:%s"
	jwstImagesTTL     = 30 * time.Minute
)

type JWSTService interface {
	GetImages(ctx context.Context, programID string) ([]models.JwstImage, error)
}

type jwstService struct {
	cache          cache.Store
	compute        clients.ComputeClient
	direct         clients.JWSTClient
	defaultProgram string
}

func NewJWSTService(
	cacheStore cache.Store,
	compute clients.ComputeClient,
	direct clients.JWSTClient,
	defaultProgram string,
) JWSTService {
	return &jwstService{
		cache:          cacheStore,
		compute:        compute,
		direct:         direct,
		defaultProgram: defaultProgram,
	}
}

// GetImages - изображения программы с кэшем 30 минут.
// Порядок fallback-а: вычислительный API, при ошибке или пустом конверте -
// прямой JWST API, при его ошибке - пустой список без ошибки
func (s *jwstService) GetImages(ctx context.Context, programID string) ([]models.JwstImage, error) {
	if programID == "" {
		programID = s.defaultProgram
	}

	cacheKey := fmt.Sprintf(jwstImagesKeyTmpl, programID)

	var images []models.JwstImage
	err := s.cache.Remember(ctx, cacheKey, jwstImagesTTL, &images, func(ctx context.Context) (interface{}, error) {
		if imgs, ok := s.fromCompute(ctx, programID); ok {
			return imgs, nil
		}
		return s.fromDirect(ctx, programID), nil
	})
	return images, err
}

func (s *jwstService) fromCompute(ctx context.Context, programID string) ([]models.JwstImage, bool) {
	env, err := s.compute.ProgramImages(ctx, programID)
	if err != nil {
		log.Printf("JWST compute API failed for program %s: %v", programID, err)
		return nil, false
	}
	if !env.OK || !env.HasData() {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(env.Data, &items); err != nil {
		log.Printf("JWST compute API returned malformed list: %v", err)
		return nil, false
	}
	return mapImages(items), true
}

func (s *jwstService) fromDirect(ctx context.Context, programID string) []models.JwstImage {
	items, err := s.direct.ProgramImages(ctx, programID)
	if err != nil {
		// Оба источника недоступны - отдаем пустой список
		log.Printf("JWST direct API failed for program %s: %v", programID, err)
		return []models.JwstImage{}
	}
	return mapImages(items)
}

func mapImages(items []json.RawMessage) []models.JwstImage {
	images := make([]models.JwstImage, 0, len(items))
	for _, raw := range items {
		var item map[string]interface{}
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		images = append(images, models.JwstImage{
			ID:            extractString(item, "id"),
			ObservationID: extractString(item, "observation_id", "observationId"),
			Program:       extractString(item, "program"),
			Details:       item["details"],
			FileType:      extractStringDefault(item, "jpg", "file_type", "fileType"),
			Thumbnail:     extractString(item, "thumbnail"),
			Location:      extractString(item, "location"),
		})
	}
	return images
}

func extractString(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if val, ok := item[key]; ok {
			if str, ok := val.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

func extractStringDefault(item map[string]interface{}, def string, keys ...string) string {
	if val := extractString(item, keys...); val != "" {
		return val
	}
	return def
}
