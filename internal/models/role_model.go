package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role carries the whole permission map as one JSON document keyed by model,
// e.g. {"blogs": {"create": true, "read": true, ...}}. Missing models mean
// no access; the admin role bypasses the map entirely.
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex" json:"name"`
	Description string         `json:"description"`
	Permissions datatypes.JSON `json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
