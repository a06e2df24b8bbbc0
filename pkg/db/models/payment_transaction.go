package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/enums"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

// PaymentTransaction records one Stripe Checkout Session from creation until
// it settles. PaymentStatus moves out of pending at most once; the repository
// enforces this with a conditional update on the pending row.
type PaymentTransaction struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StripeSessionID string               `gorm:"column:stripe_session_id;not null;uniqueIndex"`
	CartID          uuid.UUID            `gorm:"column:cart_id;type:uuid;not null"`
	CustomerEmail   string               `gorm:"column:customer_email;not null"`
	BuyerClass      enums.BuyerClass     `gorm:"column:buyer_class;not null"`
	Amount          decimal.Decimal      `gorm:"column:amount;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal      `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Currency        enums.Currency       `gorm:"column:currency;not null;default:'usd'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'pending';index"`
	StripeStatus    string               `gorm:"column:stripe_status;not null;default:'initiated'"`
	ShippingMethod  enums.ShippingMethod `gorm:"column:shipping_method;not null"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb"`
	Items           types.OrderItems     `gorm:"column:items;type:jsonb;not null"`
	Metadata        map[string]string    `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (PaymentTransaction) TableName() string { return "payment_transactions" }
