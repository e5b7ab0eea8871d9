package models

import "time"

type FocusSession struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	UserID          uint64    `gorm:"not null;index" json:"user_id"`
	TaskID          *uint64   `gorm:"index" json:"task_id"`
	StartedAt       time.Time `gorm:"not null" json:"started_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Completed       bool      `gorm:"not null;default:false" json:"completed"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
}
