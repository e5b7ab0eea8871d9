package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindmesh/mindmesh-api/internal/dto"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
	"github.com/mindmesh/mindmesh-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the user's tasks. With ?tree=true the response is the
// nested hierarchy forest; otherwise a paginated flat list. Supports
// ?status= and ?parent_task_id= filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var status *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		status = &s
	}

	if c.Query("tree") == "true" {
		forest, err := h.taskService.ListForest(userID, status)
		if err != nil {
			apierrors.InternalError(c, "Failed to fetch tasks")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tasks": dto.ToTaskForest(forest),
		})
		return
	}

	input := services.ListTasksInput{UserID: userID, Status: status}

	if raw := c.Query("parent_task_id"); raw != "" {
		if raw == "null" {
			input.RootsOnly = true
		} else {
			parentID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid parent_task_id")
				return
			}
			input.ParentTaskID = &parentID
		}
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	taskDTOs := make([]dto.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		taskDTOs = append(taskDTOs, dto.ToTaskDTO(t))
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": taskDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a specific task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title             string     `json:"title" binding:"required"`
		Description       string     `json:"description"`
		Status            string     `json:"status"`
		Priority          string     `json:"priority"`
		DueDate           *time.Time `json:"due_date"`
		ParentTaskID      *uint64    `json:"parent_task_id"`
		RecurrencePattern *string    `json:"recurrence_pattern"`
		RecurrenceEndDate *time.Time `json:"recurrence_end_date"`
		TaskOrder         int        `json:"task_order"`
		Tags              []string   `json:"tags"`
		Complexity        int        `json:"complexity"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            models.TaskStatus(req.Status),
		Priority:          models.TaskPriority(req.Priority),
		DueDate:           req.DueDate,
		ParentTaskID:      req.ParentTaskID,
		RecurrenceEndDate: req.RecurrenceEndDate,
		TaskOrder:         req.TaskOrder,
		Tags:              req.Tags,
		Complexity:        req.Complexity,
	}
	if req.RecurrencePattern != nil {
		pattern := models.RecurrencePattern(*req.RecurrencePattern)
		input.RecurrencePattern = &pattern
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task. Only fields present in the
// request body are touched; an explicit null clears nullable fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if v, ok := rawReq["title"]; ok {
		if s, ok := v.(string); ok {
			input.Title = &s
		}
	}
	if v, ok := rawReq["description"]; ok {
		if s, ok := v.(string); ok {
			input.Description = &s
		}
	}
	if v, ok := rawReq["status"]; ok {
		if s, ok := v.(string); ok {
			status := models.TaskStatus(s)
			input.Status = &status
		}
	}
	if v, ok := rawReq["priority"]; ok {
		if s, ok := v.(string); ok {
			priority := models.TaskPriority(s)
			input.Priority = &priority
		}
	}
	if v, ok := rawReq["due_date"]; ok {
		if v == nil {
			input.ClearDueDate = true
		} else if s, ok := v.(string); ok {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return
			}
			input.DueDate = &parsed
		}
	}
	if v, ok := rawReq["recurrence_pattern"]; ok {
		if v == nil {
			input.ClearRecurrence = true
		} else if s, ok := v.(string); ok {
			pattern := models.RecurrencePattern(s)
			input.RecurrencePattern = &pattern
		}
	}
	if v, ok := rawReq["tags"]; ok {
		if raw, ok := v.([]any); ok {
			tags := make([]string, 0, len(raw))
			for _, t := range raw {
				if s, ok := t.(string); ok {
					tags = append(tags, s)
				}
			}
			input.Tags = &tags
		}
	}
	if v, ok := rawReq["complexity"]; ok {
		if f, ok := v.(float64); ok {
			complexity := int(f)
			input.Complexity = &complexity
		}
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CompleteTask marks a task done. If the task recurs, the generated
// successor is included in the response.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, successor, err := h.taskService.CompleteTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	resp := gin.H{"task": dto.ToTaskDTO(*task)}
	if successor != nil {
		resp["next_occurrence"] = dto.ToTaskDTO(*successor)
	}
	c.JSON(http.StatusOK, resp)
}

// ReorderTask persists a new sibling position for a task.
func (h *TaskHandler) ReorderTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ReorderRequest struct {
		TaskOrder *int `json:"task_order" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.ReorderTask(taskID, userID, *req.TaskOrder); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task reordered successfully",
	})
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrParentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskOwner),
		errors.Is(err, services.ErrCrossOwnerParent):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidComplexity),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidRecurrence):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskAlreadyDone):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
