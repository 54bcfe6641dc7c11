package repository

import (
	"context"
	"time"

	"lyra/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IssRepository interface {
	Upsert(ctx context.Context, position *models.IssPosition) error
	GetLast(ctx context.Context) (*models.IssPosition, error)
	GetHistory(ctx context.Context, start, end *time.Time, limit int) ([]models.IssPosition, error)
	Count(ctx context.Context) (int64, error)
}

type issRepository struct {
	db *gorm.DB
}

func NewIssRepository(db *gorm.DB) IssRepository {
	return &issRepository{db: db}
}

// Upsert по timestamp наблюдения: повторная запись того же момента
// обновляет только изменяемые колонки, дубликатов не создает
func (r *issRepository) Upsert(ctx context.Context, position *models.IssPosition) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "timestamp"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"latitude", "longitude", "altitude", "velocity", "fetched_at",
			}),
		}).
		Create(position).
		Error
}

func (r *issRepository) GetLast(ctx context.Context) (*models.IssPosition, error) {
	var position models.IssPosition
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		First(&position).
		Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *issRepository) GetHistory(ctx context.Context, start, end *time.Time, limit int) ([]models.IssPosition, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	query := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if start != nil {
		query = query.Where("timestamp >= ?", *start)
	}
	if end != nil {
		query = query.Where("timestamp <= ?", *end)
	}

	var positions []models.IssPosition
	err := query.Find(&positions).Error
	return positions, err
}

func (r *issRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.IssPosition{}).
		Count(&count).
		Error
	return count, err
}
