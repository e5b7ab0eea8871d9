package models

import "time"

// MoodEntry records three bounded 1-10 scores. Entries are never deleted by
// the system automatically.
type MoodEntry struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	MoodScore   int       `gorm:"not null" json:"mood_score"`
	EnergyLevel int       `gorm:"not null" json:"energy_level"`
	FocusLevel  int       `gorm:"not null" json:"focus_level"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
