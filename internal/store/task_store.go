package store

import (
	"sync"

	"github.com/mindmesh/mindmesh-api/internal/hierarchy"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// TaskStore caches one user's task forest. Every mutation goes through the
// task service first and triggers a full reload so the tree stays consistent
// with the store, a deliberate simplicity-over-efficiency trade. Deletes are
// await-then-apply like every other mutation; there is no optimistic local
// removal.
type TaskStore struct {
	svc    *services.TaskService
	userID uint64

	mu     sync.RWMutex
	forest []*hierarchy.Node
	loaded bool
}

// NewTaskStore creates a store bound to one user.
func NewTaskStore(svc *services.TaskService, userID uint64) *TaskStore {
	return &TaskStore{svc: svc, userID: userID}
}

// Load replaces the cached forest wholesale.
func (s *TaskStore) Load(status *models.TaskStatus) error {
	forest, err := s.svc.ListForest(s.userID, status)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.forest = forest
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Forest returns the current snapshot.
func (s *TaskStore) Forest() []*hierarchy.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest
}

// ToggleExpansion flips transient UI state in the cache only.
func (s *TaskStore) ToggleExpansion(taskID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hierarchy.ToggleExpansion(s.forest, taskID)
}

// Create persists a task then reloads.
func (s *TaskStore) Create(input services.CreateTaskInput) (*models.Task, error) {
	input.UserID = s.userID
	task, err := s.svc.CreateTask(input)
	if err != nil {
		return nil, err
	}
	return task, s.Load(nil)
}

// Update persists changes then reloads.
func (s *TaskStore) Update(taskID uint64, input services.UpdateTaskInput) (*models.Task, error) {
	task, err := s.svc.UpdateTask(taskID, s.userID, input)
	if err != nil {
		return nil, err
	}
	return task, s.Load(nil)
}

// Complete marks a task done (spawning a recurrence successor when due) then
// reloads.
func (s *TaskStore) Complete(taskID uint64) (*models.Task, *models.Task, error) {
	task, successor, err := s.svc.CompleteTask(taskID, s.userID)
	if err != nil {
		return nil, nil, err
	}
	return task, successor, s.Load(nil)
}

// Reorder persists a new sibling order then reloads to re-derive ordering.
func (s *TaskStore) Reorder(taskID uint64, newOrder int) error {
	if err := s.svc.ReorderTask(taskID, s.userID, newOrder); err != nil {
		return err
	}
	return s.Load(nil)
}

// Delete removes a task then reloads. The cache is untouched on failure.
func (s *TaskStore) Delete(taskID uint64) error {
	if err := s.svc.DeleteTask(taskID, s.userID); err != nil {
		return err
	}
	return s.Load(nil)
}
