package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a free-form contact message from the storefront.
type Inquiry struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Email           string    `gorm:"column:email;not null"`
	Company         string    `gorm:"column:company"`
	Phone           *string   `gorm:"column:phone"`
	ProductCategory string    `gorm:"column:product_category"`
	Message         string    `gorm:"column:message;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table used by gorm.
func (Inquiry) TableName() string { return "inquiries" }
