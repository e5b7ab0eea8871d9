package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/logger"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// AIHandler coordinates the generative coaching endpoints. Upstream model
// failures degrade to a static supportive payload with HTTP 200 so the
// client flow never breaks on a flaky completion.
type AIHandler struct {
	aiService   *services.AIService
	taskService *services.TaskService
	moodService *services.MoodService
	log         logger.Logger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(aiService *services.AIService, taskService *services.TaskService, moodService *services.MoodService, log logger.Logger) *AIHandler {
	return &AIHandler{
		aiService:   aiService,
		taskService: taskService,
		moodService: moodService,
		log:         log,
	}
}

// Coach generates a supportive coaching reply for free-text input.
func (h *AIHandler) Coach(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CoachRequest struct {
		Input     string `json:"input" binding:"required"`
		CoachType string `json:"coach_type"`
		Context   string `json:"context"`
	}

	var req CoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured")
		return
	}

	reply, err := h.aiService.Coach(c.Request.Context(), req.Input, req.CoachType, req.Context)
	if err != nil {
		h.log.Warnf("coaching request failed, serving fallback: %v", err)
		reply = &services.CoachingReply{
			CoachingResponse: "I couldn't reach the coaching model just now, but here's a starting point: pick the smallest piece of this you can do in five minutes and begin there.",
			Encouragement:    "One small step still counts. You've got this.",
		}
	}

	c.JSON(http.StatusOK, reply)
}

// ContextualInsights analyzes recent tasks and moods for patterns.
func (h *AIHandler) ContextualInsights(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured")
		return
	}

	tasks, moods := h.recentActivity(userID)

	insights, err := h.aiService.ContextualInsights(c.Request.Context(), tasks, moods)
	if err != nil {
		h.log.Warnf("insights request failed, serving fallback: %v", err)
		insights = &services.InsightsResult{
			ProductivityPatterns:        []string{},
			MoodCorrelations:            []string{},
			TaskCompletionInsights:      []string{},
			PersonalizedRecommendations: []string{"Not enough signal to analyze right now. Keep logging tasks and moods and check back soon."},
		}
	}

	c.JSON(http.StatusOK, insights)
}

// SmartReminders suggests contextual nudges from the user's open tasks.
func (h *AIHandler) SmartReminders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SmartRemindersRequest struct {
		AnalysisType string `json:"analysis_type"`
	}

	var req SmartRemindersRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured")
		return
	}

	tasks, _ := h.recentActivity(userID)

	result, err := h.aiService.SmartReminders(c.Request.Context(), req.AnalysisType, tasks)
	if err != nil {
		h.log.Warnf("smart reminders request failed, serving fallback: %v", err)
		result = &services.SmartRemindersResult{
			Reminders:         []services.SuggestedReminder{},
			UserPatterns:      "unavailable",
			AnalysisTimestamp: time.Now().Format(time.RFC3339),
		}
	}
	result.TotalReminders = len(result.Reminders)

	c.JSON(http.StatusOK, result)
}

// WorkloadBreakdown decomposes a described workload into suggested tasks.
func (h *AIHandler) WorkloadBreakdown(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type BreakdownRequest struct {
		Description string `json:"description" binding:"required"`
	}

	var req BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured")
		return
	}

	tasks, _ := h.recentActivity(userID)

	breakdown, err := h.aiService.BreakdownWorkload(c.Request.Context(), req.Description, tasks)
	if err != nil {
		h.log.Warnf("workload breakdown failed, serving fallback: %v", err)
		breakdown = &services.WorkloadBreakdown{
			Analysis: "The breakdown model was unavailable. Try splitting this into a first concrete action, a middle chunk, and a finishing step.",
			SuggestedTasks: []services.SuggestedTask{
				{
					Title:      req.Description,
					Priority:   string(models.TaskPriorityMedium),
					Complexity: 3,
				},
			},
			Encouragement: "Rough plans beat no plans. Refine as you go.",
		}
	}

	c.JSON(http.StatusOK, breakdown)
}

// recentActivity loads the context window handed to the model. Failures
// here degrade to empty slices rather than failing the request.
func (h *AIHandler) recentActivity(userID uint64) ([]models.Task, []models.MoodEntry) {
	tasks, _, err := h.taskService.ListTasks(services.ListTasksInput{UserID: userID})
	if err != nil {
		h.log.Warnf("failed to load tasks for AI context: %v", err)
		tasks = nil
	}

	since := time.Now().AddDate(0, 0, -14)
	moods, err := h.moodService.ListEntries(userID, &since)
	if err != nil {
		h.log.Warnf("failed to load moods for AI context: %v", err)
		moods = nil
	}

	return tasks, moods
}
