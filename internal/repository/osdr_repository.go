package repository

import (
	"context"
	"time"

	"lyra/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OsdrRepository interface {
	Upsert(ctx context.Context, item *models.OsdrDataset) error
	BatchUpsert(ctx context.Context, items []models.OsdrDataset, batchSize int) (int64, error)
	GetAll(ctx context.Context, limit int) ([]models.OsdrDataset, error)
	FindByDatasetID(ctx context.Context, datasetID string) (*models.OsdrDataset, error)
	Search(ctx context.Context, query string, limit int) ([]models.OsdrDataset, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type osdrRepository struct {
	db *gorm.DB
}

func NewOsdrRepository(db *gorm.DB) OsdrRepository {
	return &osdrRepository{db: db}
}

var osdrUpsertClause = clause.OnConflict{
	Columns: []clause.Column{{Name: "dataset_id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"title", "description", "release_date", "raw", "updated_at",
	}),
}

func (r *osdrRepository) Upsert(ctx context.Context, item *models.OsdrDataset) error {
	item.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(osdrUpsertClause).
		Create(item).
		Error
}

// BatchUpsert пишет записи чанками, каждый чанк в своей транзакции.
// При сбое чанка ранее закоммиченные чанки остаются, остаток не пишется;
// возвращается число строк, затронутых успешными чанками
func (r *osdrRepository) BatchUpsert(ctx context.Context, items []models.OsdrDataset, batchSize int) (int64, error) {
	if batchSize < 1 {
		batchSize = 100
	}

	valid := make([]models.OsdrDataset, 0, len(items))
	now := time.Now().UTC()
	for _, item := range items {
		if item.DatasetID == "" {
			continue
		}
		item.UpdatedAt = now
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	var affected int64
	for start := 0; start < len(valid); start += batchSize {
		end := start + batchSize
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Clauses(osdrUpsertClause).Create(&chunk)
			if result.Error != nil {
				return result.Error
			}
			affected += result.RowsAffected
			return nil
		})
		if err != nil {
			return affected, err
		}
	}
	return affected, nil
}

func (r *osdrRepository) GetAll(ctx context.Context, limit int) ([]models.OsdrDataset, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var items []models.OsdrDataset
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&items).
		Error
	return items, err
}

func (r *osdrRepository) FindByDatasetID(ctx context.Context, datasetID string) (*models.OsdrDataset, error) {
	var item models.OsdrDataset
	err := r.db.WithContext(ctx).First(&item, "dataset_id = ?", datasetID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *osdrRepository) Search(ctx context.Context, query string, limit int) ([]models.OsdrDataset, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	var items []models.OsdrDataset
	err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR dataset_id ILIKE ?", "%"+query+"%", "%"+query+"%").
		Order("updated_at DESC").
		Limit(limit).
		Find(&items).
		Error
	return items, err
}

// DeleteOlderThan удаляет датасеты, не обновлявшиеся дольше заданного
// числа дней
func (r *osdrRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.OsdrDataset{})
	return result.RowsAffected, result.Error
}

func (r *osdrRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OsdrDataset{}).
		Count(&count).
		Error
	return count, err
}
