package models

import "time"

// UserSettings is the server-side record of appearance and notification
// preferences. A subset is mirrored into the durable local state slot so it
// survives restarts without a round trip.
type UserSettings struct {
	ID                   uint64    `gorm:"primarykey" json:"id"`
	UserID               uint64    `gorm:"not null;uniqueIndex" json:"user_id"`
	Theme                string    `gorm:"type:varchar(20);not null;default:'system'" json:"theme"`
	ReduceMotion         bool      `gorm:"not null;default:false" json:"reduce_motion"`
	NotificationsEnabled bool      `gorm:"not null;default:true" json:"notifications_enabled"`
	TTSVoiceID           string    `gorm:"type:varchar(50)" json:"tts_voice_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
