package models

import (
	"time"

	"gorm.io/datatypes"
)

// Preference is one client-persisted UI value (column visibility, layout
// order, theme, sidebar state) keyed per user. Values are opaque JSON;
// readers must tolerate garbage and fall back to a computed default.
type Preference struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index:idx_pref_user_key,unique" json:"user_id"`
	Key       string         `gorm:"size:255;index:idx_pref_user_key,unique" json:"key"`
	Value     datatypes.JSON `json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
