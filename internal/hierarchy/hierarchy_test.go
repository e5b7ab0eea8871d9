package hierarchy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmesh/mindmesh-api/internal/models"
)

func uptr(v uint64) *uint64 { return &v }

func task(id uint64, parent *uint64, order int) models.Task {
	return models.Task{ID: id, UserID: 1, Title: "t", ParentTaskID: parent, TaskOrder: order}
}

func TestBuildForest_ParentLinking(t *testing.T) {
	tasks := []models.Task{
		task(1, nil, 0),
		task(2, uptr(1), 0),
		task(3, uptr(1), 1),
		task(4, nil, 1),
	}

	forest := BuildForest(tasks)

	require.Len(t, forest, 2)
	assert.Equal(t, uint64(1), forest[0].Task.ID)
	assert.Equal(t, uint64(4), forest[1].Task.ID)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, uint64(2), forest[0].Children[0].Task.ID)
	assert.Equal(t, uint64(3), forest[0].Children[1].Task.ID)
}

func TestBuildForest_EveryTaskAppearsOnce(t *testing.T) {
	tasks := []models.Task{
		task(1, nil, 2),
		task(2, uptr(1), 0),
		task(3, uptr(2), 0),
		task(4, nil, 1),
		task(5, uptr(4), 3),
	}

	forest := BuildForest(tasks)

	assert.Equal(t, len(tasks), Count(forest))

	seen := map[uint64]bool{}
	for _, tk := range Flatten(forest) {
		assert.False(t, seen[tk.ID], "task %d appeared twice", tk.ID)
		seen[tk.ID] = true
	}
	assert.Len(t, seen, len(tasks))
}

func TestBuildForest_OrphanPromotedToRoot(t *testing.T) {
	// Parent 99 is outside the input set (e.g. filtered out by status).
	tasks := []models.Task{
		task(1, nil, 0),
		task(2, uptr(99), 0),
	}

	forest := BuildForest(tasks)

	require.Len(t, forest, 2)
	assert.Equal(t, uint64(2), forest[1].Task.ID)
	assert.Empty(t, forest[1].Children)
}

func TestBuildForest_SiblingsSortedByOrder(t *testing.T) {
	tasks := []models.Task{
		task(1, nil, 0),
		task(2, uptr(1), 3),
		task(3, uptr(1), 1),
		task(4, uptr(1), 2),
	}

	forest := BuildForest(tasks)

	require.Len(t, forest, 1)
	ids := []uint64{}
	for _, c := range forest[0].Children {
		ids = append(ids, c.Task.ID)
	}
	assert.Equal(t, []uint64{3, 4, 2}, ids)
}

func TestBuildForest_TiesKeepFetchOrder(t *testing.T) {
	// Duplicate order values can happen after concurrent reorders; the sort
	// is stable so the upstream fetch order decides.
	tasks := []models.Task{
		task(1, nil, 0),
		task(2, uptr(1), 1),
		task(3, uptr(1), 1),
	}

	forest := BuildForest(tasks)

	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, uint64(2), forest[0].Children[0].Task.ID)
	assert.Equal(t, uint64(3), forest[0].Children[1].Task.ID)
}

func TestBuildForest_ExpandedDefaultsFalse(t *testing.T) {
	forest := BuildForest([]models.Task{task(1, nil, 0), task(2, uptr(1), 0)})

	assert.False(t, forest[0].Expanded)
	assert.False(t, forest[0].Children[0].Expanded)
}

func TestToggleExpansion(t *testing.T) {
	forest := BuildForest([]models.Task{task(1, nil, 0), task(2, uptr(1), 0)})

	assert.True(t, ToggleExpansion(forest, 2))
	assert.True(t, forest[0].Children[0].Expanded)

	assert.True(t, ToggleExpansion(forest, 2))
	assert.False(t, forest[0].Children[0].Expanded)

	// Unknown ID is a no-op
	assert.False(t, ToggleExpansion(forest, 42))
}

func TestNextDueDate(t *testing.T) {
	from := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), NextDueDate(models.RecurrenceDaily, from))
	assert.Equal(t, time.Date(2025, 2, 7, 12, 0, 0, 0, time.UTC), NextDueDate(models.RecurrenceWeekly, from))
	assert.Equal(t, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), NextDueDate(models.RecurrenceMonthly, from))
	assert.Equal(t, time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), NextDueDate(models.RecurrenceYearly, from))
}

func TestSuccessor_Daily(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	pattern := models.RecurrenceDaily
	src := &models.Task{
		UserID:            7,
		Title:             "Water plants",
		Description:       "All of them",
		Priority:          models.TaskPriorityHigh,
		DueDate:           &due,
		RecurrencePattern: &pattern,
		Tags:              models.StringList{"home"},
		Complexity:        2,
	}

	next := Successor(src, time.Now())

	require.NotNil(t, next)
	assert.Equal(t, models.TaskStatusPending, next.Status)
	assert.Equal(t, due.AddDate(0, 0, 1), *next.DueDate)
	assert.Equal(t, src.Title, next.Title)
	assert.Equal(t, src.Priority, next.Priority)
	assert.Equal(t, src.Tags, next.Tags)
	assert.Equal(t, src.Complexity, next.Complexity)
	assert.Equal(t, pattern, *next.RecurrencePattern)
}

func TestSuccessor_NoDueDateUsesNow(t *testing.T) {
	pattern := models.RecurrenceWeekly
	src := &models.Task{UserID: 1, Title: "Review", RecurrencePattern: &pattern}

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	next := Successor(src, now)

	require.NotNil(t, next)
	assert.Equal(t, now.AddDate(0, 0, 7), *next.DueDate)
}

func TestSuccessor_SuppressedPastEndDate(t *testing.T) {
	due := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	pattern := models.RecurrenceDaily
	src := &models.Task{
		UserID:            1,
		Title:             "Course homework",
		DueDate:           &due,
		RecurrencePattern: &pattern,
		RecurrenceEndDate: &end,
	}

	assert.Nil(t, Successor(src, time.Now()))
}

func TestSuccessor_NonRecurring(t *testing.T) {
	assert.Nil(t, Successor(&models.Task{Title: "once"}, time.Now()))
}
