package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a login credential for a customer. Passwords are stored as
// argon2id hashes.
type Account struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	CustomerID   *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (Account) TableName() string { return "accounts" }
