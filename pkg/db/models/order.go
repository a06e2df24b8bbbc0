package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oviahome/oviahome-backend/pkg/enums"
	"github.com/oviahome/oviahome-backend/pkg/types"
)

// Order is created only when a payment transaction settles as paid. It keeps
// the item snapshot from the transaction rather than referencing live carts.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID      *uuid.UUID           `gorm:"column:customer_id;type:uuid"`
	CustomerEmail   string               `gorm:"column:customer_email;not null;index"`
	BuyerClass      enums.BuyerClass     `gorm:"column:buyer_class;not null"`
	Items           types.OrderItems     `gorm:"column:items;type:jsonb;not null"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal      `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;not null"`
	OrderStatus     enums.OrderStatus    `gorm:"column:order_status;not null;default:'confirmed'"`
	TrackingNumber  *string              `gorm:"column:tracking_number"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb"`
	ShippingMethod  enums.ShippingMethod `gorm:"column:shipping_method;not null"`
	StripeSessionID *string              `gorm:"column:stripe_session_id;uniqueIndex"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (Order) TableName() string { return "orders" }
