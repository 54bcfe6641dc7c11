package models

import (
	"time"
)

// IssPosition - запись журнала позиций МКС.
// Timestamp наблюдения уникален и служит ключом upsert-а
type IssPosition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Altitude  float64   `gorm:"not null" json:"altitude"`
	Velocity  float64   `gorm:"not null" json:"velocity"`
	Timestamp time.Time `gorm:"uniqueIndex;not null" json:"timestamp"`
	FetchedAt time.Time `gorm:"not null" json:"fetched_at"`
}

func (IssPosition) TableName() string {
	return "iss_fetch_log"
}
