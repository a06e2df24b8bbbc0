package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oviahome/oviahome-backend/pkg/types"
)

// Category groups products for storefront navigation.
type Category struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string          `gorm:"column:slug;not null;uniqueIndex"`
	Name      types.Localized `gorm:"column:name;type:jsonb;not null"`
	SortOrder int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by gorm.
func (Category) TableName() string { return "categories" }
