package models

import (
	"time"

	"gorm.io/datatypes"
)

// OsdrDataset - каталог датасетов NASA OSDR, dataset_id уникален
// и служит ключом upsert-а
type OsdrDataset struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	DatasetID   string         `gorm:"uniqueIndex;not null" json:"dataset_id"`
	Title       string         `gorm:"type:text" json:"title"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	ReleaseDate *string        `json:"release_date,omitempty"`
	Raw         datatypes.JSON `gorm:"type:jsonb" json:"-"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`
}

func (OsdrDataset) TableName() string {
	return "osdr_items"
}
