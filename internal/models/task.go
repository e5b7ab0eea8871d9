package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

// StringList stores a string slice as a JSON column so the same model works
// on postgres and the sqlite test databases.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Task is the central entity. ParentTaskID forms a same-owner tree; TaskOrder
// is unique only within a sibling group. Tasks are hard-deleted.
type Task struct {
	ID                uint64             `gorm:"primarykey" json:"id"`
	UserID            uint64             `gorm:"not null;index" json:"user_id"`
	Title             string             `gorm:"not null" json:"title"`
	Description       string             `gorm:"type:text" json:"description"`
	Status            TaskStatus         `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority          TaskPriority       `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate           *time.Time         `json:"due_date"`
	ParentTaskID      *uint64            `gorm:"index" json:"parent_task_id"`
	RecurrencePattern *RecurrencePattern `gorm:"type:varchar(10)" json:"recurrence_pattern"`
	RecurrenceEndDate *time.Time         `json:"recurrence_end_date"`
	TaskOrder         int                `gorm:"not null;default:0" json:"task_order"`
	Tags              StringList         `gorm:"type:text" json:"tags"`
	Complexity        int                `gorm:"not null;default:3" json:"complexity"`
	CompletedAt       *time.Time         `json:"completed_at"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`

	// Relations
	User       User   `gorm:"foreignKey:UserID" json:"-"`
	ParentTask *Task  `gorm:"foreignKey:ParentTaskID" json:"-"`
	Subtasks   []Task `gorm:"foreignKey:ParentTaskID" json:"-"`
}

// IsRecurring reports whether completing the task should spawn a successor.
func (t *Task) IsRecurring() bool {
	return t.RecurrencePattern != nil && *t.RecurrencePattern != ""
}
