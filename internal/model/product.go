package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the persisted state of one supplier SKU
type Product struct {
	ID             uint            `json:"id" gorm:"primarykey"`
	SKU            string          `json:"sku" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name           string          `json:"name" gorm:"type:varchar(255);not null"`
	Category       string          `json:"category" gorm:"type:varchar(100);index"`
	CostPrice      decimal.Decimal `json:"cost_price" gorm:"type:decimal(12,4);not null"`
	ResalePrice    decimal.Decimal `json:"resale_price" gorm:"type:decimal(12,2);not null"`
	MarkupPercent  decimal.Decimal `json:"markup_percent" gorm:"type:decimal(6,2);not null"`
	InStock        bool            `json:"in_stock" gorm:"not null;index"`
	ImageURL       string          `json:"image_url" gorm:"type:text"`
	ImageLocalPath string          `json:"image_local_path" gorm:"type:varchar(255)"`
	SourceURL      string          `json:"source_url" gorm:"type:text"`
	FirstSeenAt    time.Time       `json:"first_seen_at" gorm:"not null"`
	LastSeenAt     time.Time       `json:"last_seen_at" gorm:"not null"`
	LastUpdatedAt  time.Time       `json:"last_updated_at" gorm:"not null;index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}
