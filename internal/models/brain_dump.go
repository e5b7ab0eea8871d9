package models

import "time"

type BrainDumpType string

const (
	BrainDumpText  BrainDumpType = "text"
	BrainDumpVoice BrainDumpType = "voice"
)

// BrainDump is a free-text capture awaiting AI classification.
type BrainDump struct {
	ID        uint64        `gorm:"primarykey" json:"id"`
	UserID    uint64        `gorm:"not null;index" json:"user_id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Type      BrainDumpType `gorm:"type:varchar(10);not null;default:'text'" json:"type"`
	Processed bool          `gorm:"not null;default:false" json:"processed"`
	Category  string        `gorm:"type:varchar(50)" json:"category"`
	AISummary string        `gorm:"type:text" json:"ai_summary"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
