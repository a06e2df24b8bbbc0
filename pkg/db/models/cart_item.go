package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/enums"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

// CartItem is one product line in a cart. UnitPrice is captured when the
// line is first added; re-adding the same product merges quantity without
// touching the captured price unless repricing is enabled.
type CartItem struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID       uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID    uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity     int              `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	BuyerClass   enums.BuyerClass `gorm:"column:buyer_class;not null"`
	ProductName  types.Localized  `gorm:"column:product_name;type:jsonb"`
	ProductImage string           `gorm:"column:product_image"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (CartItem) TableName() string { return "cart_items" }

// LineTotal is quantity times the captured unit price.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
