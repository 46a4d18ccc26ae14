package models

import (
	"time"

	"gorm.io/gorm"
)

// Edge is one unidirectional relation triple. Unlike embedded id arrays,
// these are not stored on the owning record; they are mutated through
// separate add/remove calls after the record itself is saved.
type Edge struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Kind      string         `gorm:"size:100;index:idx_edge_kind_from;index:idx_edge_kind_to" json:"kind"`
	FromID    string         `gorm:"size:100;index:idx_edge_kind_from" json:"from_id"`
	FromType  string         `gorm:"size:100" json:"from_type"`
	ToID      string         `gorm:"size:100;index:idx_edge_kind_to" json:"to_id"`
	ToType    string         `gorm:"size:100" json:"to_type"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
