package dto

import (
	"time"

	"github.com/mindmesh/mindmesh-api/internal/hierarchy"
	"github.com/mindmesh/mindmesh-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                uint64                    `json:"id"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Status            models.TaskStatus         `json:"status"`
	Priority          models.TaskPriority       `json:"priority"`
	DueDate           *time.Time                `json:"due_date"`
	ParentTaskID      *uint64                   `json:"parent_task_id"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrence_pattern"`
	RecurrenceEndDate *time.Time                `json:"recurrence_end_date"`
	TaskOrder         int                       `json:"task_order"`
	Tags              []string                  `json:"tags"`
	Complexity        int                       `json:"complexity"`
	CompletedAt       *time.Time                `json:"completed_at"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// TaskNodeDTO is one node of the hierarchy forest response.
type TaskNodeDTO struct {
	TaskDTO
	IsExpanded bool          `json:"is_expanded"`
	Subtasks   []TaskNodeDTO `json:"subtasks"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            task.Status,
		Priority:          task.Priority,
		DueDate:           task.DueDate,
		ParentTaskID:      task.ParentTaskID,
		RecurrencePattern: task.RecurrencePattern,
		RecurrenceEndDate: task.RecurrenceEndDate,
		TaskOrder:         task.TaskOrder,
		Tags:              tags,
		Complexity:        task.Complexity,
		CompletedAt:       task.CompletedAt,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

// ToTaskForest converts a hierarchy forest into the nested response shape.
func ToTaskForest(forest []*hierarchy.Node) []TaskNodeDTO {
	nodes := make([]TaskNodeDTO, 0, len(forest))
	for _, n := range forest {
		nodes = append(nodes, TaskNodeDTO{
			TaskDTO:    ToTaskDTO(n.Task),
			IsExpanded: n.Expanded,
			Subtasks:   ToTaskForest(n.Children),
		})
	}
	return nodes
}
