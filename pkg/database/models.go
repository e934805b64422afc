package database

import (
	"time"

	"gorm.io/gorm"
)

// Reception is one decoded M17 transmission as heard by the receiver.
type Reception struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Src        string    `gorm:"index;size:12;not null" json:"src"`
	Dst        string    `gorm:"index;size:12;not null" json:"dst"`
	TypeField  uint16    `gorm:"not null" json:"type_field"`
	CAN        uint8     `gorm:"index" json:"can"`
	Signed     bool      `json:"signed"`
	SigValid   *bool     `json:"sig_valid,omitempty"` // nil until a signature result arrives
	SMS        string    `gorm:"size:822" json:"sms,omitempty"`
	FrameCount int       `gorm:"default:0" json:"frame_count"`
	HeardAt    time.Time `gorm:"index;not null" json:"heard_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Reception
func (Reception) TableName() string {
	return "receptions"
}

// BeforeCreate hook to ensure timestamps are set
func (r *Reception) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.HeardAt.IsZero() {
		r.HeardAt = time.Now()
	}
	return nil
}
