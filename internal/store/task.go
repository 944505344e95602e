package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// TaskFilter restricts and paginates task listings. The count and the page
// returned by List reflect the same predicate evaluated together, so
// pagination metadata cannot skew against the items under concurrent writes.
type TaskFilter struct {
	// TeamIDs restricts results to the given teams. nil means unrestricted;
	// an empty, non-nil slice yields no results.
	TeamIDs []uuid.UUID

	// AssigneeID restricts results to tasks assigned to the given user.
	AssigneeID *uuid.UUID

	// Status restricts results to tasks with the given canonical status.
	Status *domain.Status

	// Priority restricts results to tasks with the given canonical priority.
	Priority *domain.Priority

	// Search is a case-insensitive substring match on title or description.
	Search string

	// Page is 1-indexed.
	Page int

	// PageSize is the number of items per page.
	PageSize int
}

// TaskStore defines the interface for task and task-history persistence.
// History is append-only: entries are never updated or deleted.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves a page of tasks matching the filter, newest first,
	// together with the total number of matches.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)

	// Update modifies an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its history.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByTeam reports how many tasks reference the given team.
	CountByTeam(ctx context.Context, teamID uuid.UUID) (int, error)

	// AppendHistory records one status transition for a task.
	AppendHistory(ctx context.Context, entry *domain.TaskHistoryEntry) error

	// ListHistory retrieves the history of a task, most recent first.
	ListHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryEntry, error)

	// WithTx returns a TaskStore that runs against the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
