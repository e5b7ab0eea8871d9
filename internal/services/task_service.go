package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/constants"
	"github.com/mindmesh/mindmesh-api/internal/hierarchy"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotTaskOwner      = errors.New("task belongs to a different user")
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleEmpty        = errors.New("title cannot be empty")
	ErrInvalidComplexity = errors.New("complexity must be between 1 and 5")
	ErrParentNotFound    = errors.New("parent task not found")
	ErrCrossOwnerParent  = errors.New("parent task belongs to a different user")
	ErrTaskAlreadyDone   = errors.New("task is already completed")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrInvalidRecurrence = errors.New("invalid recurrence pattern")
)

// TaskService handles task business logic, including hierarchy assembly and
// recurrence regeneration.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID       uint64
	Status       *models.TaskStatus
	ParentTaskID *uint64
	RootsOnly    bool
	Page         int
	PageSize     int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID            uint64
	Title             string
	Description       string
	Status            models.TaskStatus
	Priority          models.TaskPriority
	DueDate           *time.Time
	ParentTaskID      *uint64
	RecurrencePattern *models.RecurrencePattern
	RecurrenceEndDate *time.Time
	TaskOrder         int
	Tags              []string
	Complexity        int
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Status            *models.TaskStatus
	Priority          *models.TaskPriority
	DueDate           *time.Time
	ClearDueDate      bool
	RecurrencePattern *models.RecurrencePattern
	ClearRecurrence   bool
	Tags              *[]string
	Complexity        *int
}

// ListTasks returns the user's flat task list plus total count.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:       input.UserID,
		Status:       input.Status,
		ParentTaskID: input.ParentTaskID,
		RootsOnly:    input.RootsOnly,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListForest returns the user's tasks assembled into a hierarchy forest.
// Pagination is intentionally skipped here: the tree is built over the whole
// owner-scoped set so parents and children always land in the same response.
func (s *TaskService) ListForest(userID uint64, status *models.TaskStatus) ([]*hierarchy.Node, error) {
	tasks, _, err := s.taskRepo.List(repository.TaskFilter{UserID: userID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return hierarchy.BuildForest(tasks), nil
}

// GetTask returns a task owned by the given user.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// CreateTask creates a new task with validation.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if input.Complexity == 0 {
		input.Complexity = 3
	}
	if err := validateTaskEnums(input.Status, input.Priority, input.RecurrencePattern); err != nil {
		return nil, err
	}
	if input.Complexity < constants.MinComplexity || input.Complexity > constants.MaxComplexity {
		return nil, ErrInvalidComplexity
	}

	if input.ParentTaskID != nil {
		if err := s.checkParent(*input.ParentTaskID, input.UserID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		UserID:            input.UserID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            input.Status,
		Priority:          input.Priority,
		DueDate:           input.DueDate,
		ParentTaskID:      input.ParentTaskID,
		RecurrencePattern: input.RecurrencePattern,
		RecurrenceEndDate: input.RecurrenceEndDate,
		TaskOrder:         input.TaskOrder,
		Tags:              input.Tags,
		Complexity:        input.Complexity,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask updates an existing task owned by the user.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearRecurrence {
		task.RecurrencePattern = nil
		task.RecurrenceEndDate = nil
	} else if input.RecurrencePattern != nil {
		if !validRecurrence(*input.RecurrencePattern) {
			return nil, ErrInvalidRecurrence
		}
		task.RecurrencePattern = input.RecurrencePattern
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.Complexity != nil {
		if *input.Complexity < constants.MinComplexity || *input.Complexity > constants.MaxComplexity {
			return nil, ErrInvalidComplexity
		}
		task.Complexity = *input.Complexity
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// CompleteTask marks a task completed and, when a recurrence pattern is set,
// creates exactly one pending successor with a shifted due date. Creation is
// suppressed when the computed next date falls past the recurrence end date.
func (s *TaskService) CompleteTask(taskID, userID uint64) (*models.Task, *models.Task, error) {
	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, nil, err
	}
	if task.Status == models.TaskStatusCompleted {
		return nil, nil, ErrTaskAlreadyDone
	}

	now := time.Now()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now

	if err := s.taskRepo.Update(task); err != nil {
		return nil, nil, fmt.Errorf("failed to complete task: %w", err)
	}

	successor := hierarchy.Successor(task, now)
	if successor == nil {
		return task, nil, nil
	}

	if err := s.taskRepo.Create(successor); err != nil {
		return nil, nil, fmt.Errorf("failed to create recurring successor: %w", err)
	}
	return task, successor, nil
}

// ReorderTask persists a new sibling order for one task. Siblings are not
// renumbered atomically; callers reload the list afterward to re-derive
// consistent ordering, and ties sort stably.
func (s *TaskService) ReorderTask(taskID, userID uint64, newOrder int) error {
	if _, err := s.GetTask(taskID, userID); err != nil {
		return err
	}
	if err := s.taskRepo.UpdateOrder(taskID, newOrder); err != nil {
		return fmt.Errorf("failed to reorder task: %w", err)
	}
	return nil
}

// DeleteTask permanently removes a task owned by the user.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	if _, err := s.GetTask(taskID, userID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// checkParent enforces the same-owner nesting invariant.
func (s *TaskService) checkParent(parentID, userID uint64) error {
	parent, err := s.taskRepo.FindByID(parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentNotFound
		}
		return fmt.Errorf("failed to find parent task: %w", err)
	}
	if parent.UserID != userID {
		return ErrCrossOwnerParent
	}
	return nil
}

func validStatus(s models.TaskStatus) bool {
	switch s {
	case models.TaskStatusPending, models.TaskStatusInProgress,
		models.TaskStatusCompleted, models.TaskStatusCancelled:
		return true
	}
	return false
}

func validPriority(p models.TaskPriority) bool {
	switch p {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return true
	}
	return false
}

func validRecurrence(r models.RecurrencePattern) bool {
	switch r {
	case models.RecurrenceDaily, models.RecurrenceWeekly,
		models.RecurrenceMonthly, models.RecurrenceYearly:
		return true
	}
	return false
}

func validateTaskEnums(status models.TaskStatus, priority models.TaskPriority, recurrence *models.RecurrencePattern) error {
	if !validStatus(status) {
		return ErrInvalidTaskStatus
	}
	if !validPriority(priority) {
		return ErrInvalidPriority
	}
	if recurrence != nil && !validRecurrence(*recurrence) {
		return ErrInvalidRecurrence
	}
	return nil
}
