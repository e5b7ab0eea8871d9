package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks        []Task        `gorm:"foreignKey:UserID" json:"-"`
	MoodEntries  []MoodEntry   `gorm:"foreignKey:UserID" json:"-"`
	Reminders    []Reminder    `gorm:"foreignKey:UserID" json:"-"`
	Integrations []Integration `gorm:"foreignKey:UserID" json:"-"`
}
