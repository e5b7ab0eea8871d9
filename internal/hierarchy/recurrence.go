package hierarchy

import (
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
)

// NextDueDate shifts a due date forward by one recurrence unit.
func NextDueDate(pattern models.RecurrencePattern, from time.Time) time.Time {
	switch pattern {
	case models.RecurrenceDaily:
		return from.AddDate(0, 0, 1)
	case models.RecurrenceWeekly:
		return from.AddDate(0, 0, 7)
	case models.RecurrenceMonthly:
		return from.AddDate(0, 1, 0)
	case models.RecurrenceYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

// Successor builds the follow-up task for a completed recurring task. It
// clones title, description, priority, tags, complexity and the recurrence
// fields, shifts the due date by one unit (from now when the task had no due
// date), and resets status to pending. Returns nil when the computed next
// date falls past the recurrence end date.
func Successor(task *models.Task, now time.Time) *models.Task {
	if !task.IsRecurring() {
		return nil
	}

	base := now
	if task.DueDate != nil {
		base = *task.DueDate
	}
	next := NextDueDate(*task.RecurrencePattern, base)

	if task.RecurrenceEndDate != nil && next.After(*task.RecurrenceEndDate) {
		return nil
	}

	tags := make(models.StringList, len(task.Tags))
	copy(tags, task.Tags)

	return &models.Task{
		UserID:            task.UserID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            models.TaskStatusPending,
		Priority:          task.Priority,
		DueDate:           &next,
		ParentTaskID:      task.ParentTaskID,
		RecurrencePattern: task.RecurrencePattern,
		RecurrenceEndDate: task.RecurrenceEndDate,
		Tags:              tags,
		Complexity:        task.Complexity,
	}
}
