package models

import "time"

// Reminder. Snoozing never mutates RemindAt in place: it dismisses the
// original row and creates a new one pointing back via OriginalReminderID.
type Reminder struct {
	ID                 uint64    `gorm:"primarykey" json:"id"`
	UserID             uint64    `gorm:"not null;index" json:"user_id"`
	Title              string    `gorm:"not null" json:"title"`
	Description        string    `gorm:"type:text" json:"description"`
	RemindAt           time.Time `gorm:"not null;index" json:"remind_at"`
	IsDismissed        bool      `gorm:"not null;default:false" json:"is_dismissed"`
	SnoozeMinutes      *int      `json:"snooze_minutes"`
	OriginalReminderID *uint64   `json:"original_reminder_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsActive reports whether the reminder should currently be surfaced.
func (r *Reminder) IsActive(now time.Time) bool {
	return !r.IsDismissed && !r.RemindAt.After(now)
}
