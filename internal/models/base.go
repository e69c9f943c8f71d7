package models

import (
	"time"

	"intabyu/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. IDs are UUIDv7, so they sort
// by creation time; CreatedAt remains the authoritative ordering key.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every model for auto-migration, parents before children.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Question{},
		&Recording{},
		&AuditLog{},
	}
}
