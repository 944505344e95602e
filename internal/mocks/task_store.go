package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation applies the full TaskFilter semantics in memory so
// service tests can exercise scoping and pagination without a database.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn          func(ctx context.Context, filter store.TaskFilter) ([]domain.Task, int, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	CountByTeamFn   func(ctx context.Context, teamID uuid.UUID) (int, error)
	AppendHistoryFn func(ctx context.Context, entry *domain.TaskHistoryEntry) error
	ListHistoryFn   func(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryEntry, error)

	Tasks   map[uuid.UUID]*domain.Task
	History []domain.TaskHistoryEntry
}

// NewMockTaskStore creates a new mock store with initialized defaults.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// List implements the TaskStore interface, newest first.
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	var matched []domain.Task
	for _, task := range m.Tasks {
		if !matchesFilter(task, filter) {
			continue
		}
		matched = append(matched, *task)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() > matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := (filter.Page - 1) * filter.PageSize
	if offset >= total {
		return []domain.Task{}, total, nil
	}
	end := offset + filter.PageSize
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// CountByTeam implements the TaskStore interface.
func (m *MockTaskStore) CountByTeam(ctx context.Context, teamID uuid.UUID) (int, error) {
	if m.CountByTeamFn != nil {
		return m.CountByTeamFn(ctx, teamID)
	}
	count := 0
	for _, task := range m.Tasks {
		if task.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

// AppendHistory implements the TaskStore interface.
func (m *MockTaskStore) AppendHistory(ctx context.Context, entry *domain.TaskHistoryEntry) error {
	if m.AppendHistoryFn != nil {
		return m.AppendHistoryFn(ctx, entry)
	}
	m.History = append(m.History, *entry)
	return nil
}

// ListHistory implements the TaskStore interface, most recent first.
func (m *MockTaskStore) ListHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryEntry, error) {
	if m.ListHistoryFn != nil {
		return m.ListHistoryFn(ctx, taskID)
	}
	// Walk in reverse insertion order so entries with identical
	// timestamps still come back newest first.
	var entries []domain.TaskHistoryEntry
	for i := len(m.History) - 1; i >= 0; i-- {
		if m.History[i].TaskID == taskID {
			entries = append(entries, m.History[i])
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangedAt.After(entries[j].ChangedAt)
	})
	return entries, nil
}

// WithTx implements the TaskStore interface.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func matchesFilter(task *domain.Task, filter store.TaskFilter) bool {
	if filter.TeamIDs != nil {
		found := false
		for _, teamID := range filter.TeamIDs {
			if task.TeamID == teamID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.AssigneeID != nil && task.AssigneeID != *filter.AssigneeID {
		return false
	}
	if filter.Status != nil && task.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && task.Priority != *filter.Priority {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		title := strings.ToLower(task.Title)
		var description string
		if task.Description != nil {
			description = strings.ToLower(*task.Description)
		}
		if !strings.Contains(title, needle) && !strings.Contains(description, needle) {
			return false
		}
	}
	return true
}
