package model

import (
	"time"
)

// ScrapeLog records one sync run
type ScrapeLog struct {
	ID              uint       `json:"id" gorm:"primarykey"`
	RunID           string     `json:"run_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Status          string     `json:"status" gorm:"type:varchar(20);not null;index"`
	HaltedAt        string     `json:"halted_at,omitempty" gorm:"type:varchar(20)"`
	ProductsFound   int        `json:"products_found"`
	ProductsAdded   int        `json:"products_added"`
	ProductsUpdated int        `json:"products_updated"`
	ProductsRemoved int        `json:"products_removed"`
	ProductsFailed  int        `json:"products_failed"`
	RecordsRejected int        `json:"records_rejected"`
	PriceChanges    int        `json:"price_changes"`
	ErrorMessage    string     `json:"error_message,omitempty" gorm:"type:text"`
	Details         string     `json:"details,omitempty" gorm:"type:text"`
	StartedAt       time.Time  `json:"started_at" gorm:"not null;index"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Setting is a key/value configuration row editable at runtime
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey;type:varchar(100)"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingDefaultMarkup holds the markup percent applied to new prices
const SettingDefaultMarkup = "default_markup"
