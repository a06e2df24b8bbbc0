package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/types"
)

// Product represents a catalog listing with localized copy and dual pricing.
type Product struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category             string              `gorm:"column:category;not null;index"`
	Image                string              `gorm:"column:image"`
	Name                 types.Localized     `gorm:"column:name;type:jsonb;not null"`
	Features             types.LocalizedList `gorm:"column:features;type:jsonb"`
	Badges               pq.StringArray      `gorm:"column:badges;type:text[];not null;default:ARRAY[]::text[]"`
	RetailPrice          *decimal.Decimal    `gorm:"column:retail_price;type:numeric(12,2)"`
	WholesalePrice       *decimal.Decimal    `gorm:"column:wholesale_price;type:numeric(12,2)"`
	MinWholesaleQuantity int                 `gorm:"column:min_wholesale_quantity;not null;default:1"`
	PriceTiers           types.PriceTiers    `gorm:"column:price_tiers;type:jsonb"`
	InStock              bool                `gorm:"column:in_stock;not null;default:true"`
	StockQuantity        int                 `gorm:"column:stock_quantity;not null;default:0"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (Product) TableName() string { return "products" }
