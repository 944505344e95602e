package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// Ensure PostgresTaskStore implements store.TaskStore.
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a TaskStore that runs against the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

const taskColumns = "id, title, description, status, priority, assigned_to, team_id, created_at, updated_at"

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, assigned_to, team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssigneeID,
		task.TeamID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// List implements store.TaskStore.List. The page and the total come from
// one query (COUNT(*) OVER the same predicate), so pagination metadata
// always reflects the snapshot the page was read from.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, int, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TeamIDs != nil {
		if len(filter.TeamIDs) == 0 {
			return []domain.Task{}, 0, nil
		}
		placeholders := make([]string, len(filter.TeamIDs))
		for i, id := range filter.TeamIDs {
			placeholders[i] = arg(id)
		}
		conditions = append(conditions, "team_id IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.AssigneeID != nil {
		conditions = append(conditions, "assigned_to = "+arg(*filter.AssigneeID))
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}

	if filter.Priority != nil {
		conditions = append(conditions, "priority = "+arg(*filter.Priority))
	}

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		p := arg(pattern)
		conditions = append(conditions, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := "SELECT " + taskColumns + ", COUNT(*) OVER() AS total FROM tasks" + where +
		" ORDER BY created_at DESC LIMIT " + arg(filter.PageSize) + " OFFSET " + arg(offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.Task{}
	total := 0
	for rows.Next() {
		var t domain.Task
		var description sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Title, &description, &t.Status, &t.Priority,
			&t.AssigneeID, &t.TeamID, &t.CreatedAt, &t.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task row: %w", err)
		}
		if description.Valid {
			t.Description = &description.String
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating task rows: %w", err)
	}

	// An empty page past the end of the result set loses the window total;
	// fall back to a count over the same predicate.
	if len(tasks) == 0 && offset > 0 {
		countQuery := "SELECT COUNT(*) FROM tasks" + where
		if err := s.db.QueryRowContext(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
		}
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    assigned_to = $5, team_id = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssigneeID,
		task.TeamID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete. History rows are removed by
// the ON DELETE CASCADE on task_history.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRowsAffected(result, store.ErrTaskNotFound)
}

// CountByTeam implements store.TaskStore.CountByTeam.
func (s *PostgresTaskStore) CountByTeam(ctx context.Context, teamID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE team_id = $1", teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks for team: %w", err)
	}
	return count, nil
}

// AppendHistory implements store.TaskStore.AppendHistory.
func (s *PostgresTaskStore) AppendHistory(ctx context.Context, entry *domain.TaskHistoryEntry) error {
	query := `
		INSERT INTO task_history (id, task_id, changed_by, old_status, new_status, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.TaskID,
		entry.ChangedBy,
		entry.OldStatus,
		entry.NewStatus,
		entry.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append task history: %w", err)
	}

	return nil
}

// ListHistory implements store.TaskStore.ListHistory.
func (s *PostgresTaskStore) ListHistory(ctx context.Context, taskID uuid.UUID) ([]domain.TaskHistoryEntry, error) {
	query := `
		SELECT id, task_id, changed_by, old_status, new_status, changed_at
		FROM task_history
		WHERE task_id = $1
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.TaskHistoryEntry{}
	for rows.Next() {
		var e domain.TaskHistoryEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.ChangedBy, &e.OldStatus, &e.NewStatus, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}

func scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var description sql.NullString
	err := row.Scan(
		&t.ID, &t.Title, &description, &t.Status, &t.Priority,
		&t.AssigneeID, &t.TeamID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

// escapeLike escapes LIKE/ILIKE metacharacters in user-supplied search text.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
