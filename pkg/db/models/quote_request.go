package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// QuoteRequest is a wholesale quote submission listing the products and
// volumes a buyer is interested in.
type QuoteRequest struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Email     string         `gorm:"column:email;not null"`
	Company   string         `gorm:"column:company;not null"`
	Phone     string         `gorm:"column:phone"`
	Country   string         `gorm:"column:country"`
	Products  pq.StringArray `gorm:"column:products;type:text[];not null;default:ARRAY[]::text[]"`
	Quantity  string         `gorm:"column:quantity"`
	Message   string         `gorm:"column:message"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table used by gorm.
func (QuoteRequest) TableName() string { return "quote_requests" }
