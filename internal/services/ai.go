package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mindmesh/mindmesh-api/internal/models"
)

// AIService wraps the generative completion endpoint for coaching, brain
// dump classification, insight analysis, reminder suggestions and workload
// breakdown. Each call is attempted once; callers degrade to fallback
// payloads on failure.
type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// CoachingReply is the generative coaching response shape.
type CoachingReply struct {
	CoachingResponse      string   `json:"coaching_response"`
	Subtasks              []string `json:"subtasks,omitempty"`
	PrioritySuggestion    string   `json:"priority_suggestion,omitempty"`
	EstimatedTime         string   `json:"estimated_time,omitempty"`
	Encouragement         string   `json:"encouragement"`
	PersonalizedInsights  []string `json:"personalized_insights,omitempty"`
	RecommendedStrategies []string `json:"recommended_strategies,omitempty"`
}

// BrainDumpResult classifies one free-text capture.
type BrainDumpResult struct {
	Category         string   `json:"category"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Priority         string   `json:"priority,omitempty"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// InsightsResult aggregates pattern analysis over recent activity.
type InsightsResult struct {
	ProductivityPatterns        []string `json:"productivity_patterns"`
	MoodCorrelations            []string `json:"mood_correlations"`
	TaskCompletionInsights      []string `json:"task_completion_insights"`
	PersonalizedRecommendations []string `json:"personalized_recommendations"`
}

// SuggestedReminder is one AI-generated nudge.
type SuggestedReminder struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RemindAt    string `json:"remind_at"`
	Reason      string `json:"reason"`
}

// SmartRemindersResult is the contextual nudge payload.
type SmartRemindersResult struct {
	Reminders         []SuggestedReminder `json:"reminders"`
	UserPatterns      string              `json:"user_patterns"`
	AnalysisTimestamp string              `json:"analysis_timestamp"`
	TotalReminders    int                 `json:"total_reminders"`
}

// SuggestedTask is one decomposed unit of a workload.
type SuggestedTask struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	Complexity    int      `json:"complexity"`
	EstimatedTime string   `json:"estimated_time"`
	Tags          []string `json:"tags,omitempty"`
}

// WorkloadBreakdown decomposes a described workload into tasks.
type WorkloadBreakdown struct {
	Analysis        string          `json:"analysis"`
	SuggestedTasks  []SuggestedTask `json:"suggested_tasks"`
	OverallStrategy string          `json:"overall_strategy"`
	TimeEstimate    string          `json:"time_estimate"`
	Encouragement   string          `json:"encouragement"`
}

// Coach generates a coaching reply for one user input.
func (s *AIService) Coach(ctx context.Context, input, coachType, userContext string) (*CoachingReply, error) {
	prompt := fmt.Sprintf(`You are a supportive productivity coach for neurodivergent users (ADHD, autism, executive dysfunction). Be concrete, kind and non-judgmental.

Request type: %s
User context: %s

User input:
%s

Reply with JSON only, using this shape:
{
  "coaching_response": "main reply",
  "subtasks": ["optional concrete next steps"],
  "priority_suggestion": "low|medium|high",
  "estimated_time": "e.g. 30 minutes",
  "encouragement": "one short encouraging sentence",
  "personalized_insights": ["optional"],
  "recommended_strategies": ["optional"]
}`, coachType, userContext, input)

	var reply CoachingReply
	if err := s.completeJSON(ctx, prompt, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ProcessBrainDump classifies a free-text capture.
func (s *AIService) ProcessBrainDump(ctx context.Context, content string, dumpType models.BrainDumpType) (*BrainDumpResult, error) {
	prompt := fmt.Sprintf(`Classify this captured thought from a %s brain dump for a neurodivergent productivity app.

Content:
%s

Reply with JSON only:
{
  "category": "task|idea|worry|note",
  "title": "short title",
  "summary": "one or two sentences",
  "priority": "low|medium|high",
  "suggested_actions": ["optional"],
  "tags": ["optional"]
}`, dumpType, content)

	var result BrainDumpResult
	if err := s.completeJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ContextualInsights analyzes recent tasks and mood entries.
func (s *AIService) ContextualInsights(ctx context.Context, tasks []models.Task, moods []models.MoodEntry) (*InsightsResult, error) {
	prompt := fmt.Sprintf(`Analyze this user's recent activity for productivity and mood patterns.

Recent tasks (%d):
%s

Recent mood entries (%d):
%s

Reply with JSON only:
{
  "productivity_patterns": ["..."],
  "mood_correlations": ["..."],
  "task_completion_insights": ["..."],
  "personalized_recommendations": ["..."]
}`, len(tasks), summarizeTasks(tasks), len(moods), summarizeMoods(moods))

	var result InsightsResult
	if err := s.completeJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SmartReminders suggests contextual nudges from pending tasks.
func (s *AIService) SmartReminders(ctx context.Context, analysisType string, tasks []models.Task) (*SmartRemindersResult, error) {
	prompt := fmt.Sprintf(`Suggest a handful of gentle, contextual reminders for a neurodivergent user. Analysis type: %s. Current time: %s.

Pending tasks:
%s

Reply with JSON only:
{
  "reminders": [{"title": "...", "description": "...", "remind_at": "ISO8601", "reason": "..."}],
  "user_patterns": "one sentence"
}`, analysisType, time.Now().Format(time.RFC3339), summarizeTasks(tasks))

	var result SmartRemindersResult
	if err := s.completeJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}
	result.AnalysisTimestamp = time.Now().Format(time.RFC3339)
	result.TotalReminders = len(result.Reminders)
	return &result, nil
}

// BreakdownWorkload decomposes a described workload into suggested tasks.
func (s *AIService) BreakdownWorkload(ctx context.Context, description string, existingTasks []models.Task) (*WorkloadBreakdown, error) {
	prompt := fmt.Sprintf(`Break this workload into small, concrete tasks for a user who struggles with executive function. Keep each task under an hour where possible.

Workload:
%s

Existing tasks for context:
%s

Reply with JSON only:
{
  "analysis": "...",
  "suggested_tasks": [{"title": "...", "description": "...", "priority": "low|medium|high", "complexity": 1, "estimated_time": "...", "tags": ["..."]}],
  "overall_strategy": "...",
  "time_estimate": "...",
  "encouragement": "..."
}`, description, summarizeTasks(existingTasks))

	var result WorkloadBreakdown
	if err := s.completeJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// completeJSON sends one completion request and parses the JSON body of the
// reply into out.
func (s *AIService) completeJSON(ctx context.Context, prompt string, out interface{}) error {
	if s.client == nil {
		return fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.4,
		},
	)
	if err != nil {
		return fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return nil
}

// stripCodeFence removes a ```json fence when the model wraps its output.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

func summarizeTasks(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, t := range tasks {
		due := "no due date"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s [%s, %s priority, due %s]\n", t.Title, t.Status, t.Priority, due)
	}
	return b.String()
}

func summarizeMoods(moods []models.MoodEntry) string {
	if len(moods) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, m := range moods {
		fmt.Fprintf(&b, "- %s mood=%d energy=%d focus=%d\n",
			m.CreatedAt.Format("2006-01-02"), m.MoodScore, m.EnergyLevel, m.FocusLevel)
	}
	return b.String()
}
