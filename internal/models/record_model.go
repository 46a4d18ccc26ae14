package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content records move draft -> published/rejected, booking records move
// pending -> confirmed/cancelled. The two vocabularies never mix; which one
// applies is decided by the model schema's booking flag.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusRejected  = "rejected"

	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Record is one persisted entity of any model (blog, tour, coupon, ...).
// Its shape lives entirely in Data; the engine never knows it statically.
type Record struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Model        string         `gorm:"size:100;index" json:"model"`
	Data         datatypes.JSON `json:"data"`
	Status       string         `gorm:"size:20;default:'draft';index" json:"status"`
	StatusReason string         `gorm:"type:text" json:"status_reason,omitempty"`
	Published    bool           `gorm:"default:false" json:"published"`
	CreatedBy    uint           `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy    uint           `gorm:"index" json:"updated_by,omitempty"`
	Creator      *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Updater      *User          `gorm:"foreignKey:UpdatedBy" json:"updater,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
