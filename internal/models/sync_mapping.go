package models

import "time"

type ExternalSystem string

const (
	SystemGoogleCalendar ExternalSystem = "google_calendar"
	SystemNotion         ExternalSystem = "notion"
)

type SyncDirection string

const (
	DirectionImport SyncDirection = "import"
	DirectionExport SyncDirection = "export"
	DirectionBoth   SyncDirection = "both"
)

// SyncMapping binds a local task to an external item. The composite unique
// index on (user_id, external_id, external_system) is the idempotency key
// that prevents re-importing the same external item twice.
type SyncMapping struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	UserID         uint64         `gorm:"not null;uniqueIndex:idx_sync_identity" json:"user_id"`
	TaskID         uint64         `gorm:"not null;index" json:"task_id"`
	ExternalID     string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_sync_identity" json:"external_id"`
	ExternalSystem ExternalSystem `gorm:"type:varchar(30);not null;uniqueIndex:idx_sync_identity" json:"external_system"`
	SyncDirection  SyncDirection  `gorm:"type:varchar(10);not null;default:'import'" json:"sync_direction"`
	CreatedAt      time.Time      `json:"created_at"`

	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
