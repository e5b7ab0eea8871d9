package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SyncRules is the free-form per-integration configuration. Stored as JSON.
type SyncRules struct {
	ImportEnabled bool     `json:"import_enabled"`
	ExportEnabled bool     `json:"export_enabled"`
	Filters       []string `json:"filters,omitempty"`
}

func (r SyncRules) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *SyncRules) Scan(value interface{}) error {
	if value == nil {
		*r = SyncRules{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported type for SyncRules: %T", value)
	}
}

// Integration holds the connection to an external system. Tokens are
// write-only from the client's perspective and never serialized.
type Integration struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	UserID          uint64         `gorm:"not null;uniqueIndex:idx_user_integration" json:"user_id"`
	IntegrationType ExternalSystem `gorm:"type:varchar(30);not null;uniqueIndex:idx_user_integration" json:"integration_type"`
	AccessToken     string         `gorm:"type:text;not null" json:"-"`
	RefreshToken    string         `gorm:"type:text" json:"-"`
	TokenExpiresAt  *time.Time     `json:"-"`
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"`
	LastSyncAt      *time.Time     `json:"last_sync_at"`
	SyncRules       SyncRules      `gorm:"type:text" json:"sync_rules"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
