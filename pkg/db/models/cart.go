package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/enums"
)

// Cart is the mutable per-session basket. Total is always recomputed from
// the items before persisting; it is never adjusted incrementally.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID  string           `gorm:"column:session_id;not null;uniqueIndex"`
	BuyerClass enums.BuyerClass `gorm:"column:buyer_class;not null;default:'retail'"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Total      decimal.Decimal  `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (Cart) TableName() string { return "carts" }
