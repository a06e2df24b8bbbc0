package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a known buyer contact, created lazily from checkouts and quote
// requests. Email is the natural key.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Company   string    `gorm:"column:company"`
	Phone     string    `gorm:"column:phone"`
	Country   string    `gorm:"column:country"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (Customer) TableName() string { return "customers" }
