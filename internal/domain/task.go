package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors.
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrNoAssignee     = errors.New("task must have an assignee")
	ErrNoTeam         = errors.New("task must belong to a team")
)

// Task is a unit of work assigned to a member of a team.
//
// Invariant: the assignee is a current member of the task's team at the
// time the task is created or the assignment changes. The policy engine
// in internal/service enforces this before any write reaches the store.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	AssigneeID  uuid.UUID `json:"assigned_to"`
	TeamID      uuid.UUID `json:"team_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task. Status defaults to pending and priority to
// medium when the zero value is passed. No history entry accompanies
// creation; history begins at the first status transition.
func NewTask(
	title string,
	description *string,
	status Status,
	priority Priority,
	assigneeID, teamID uuid.UUID,
) (*Task, error) {
	if status == "" {
		status = StatusPending
	}
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  assigneeID,
		TeamID:      teamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.Valid() {
		return ErrInvalidStatus
	}

	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}

	if t.AssigneeID == uuid.Nil {
		return ErrNoAssignee
	}

	if t.TeamID == uuid.Nil {
		return ErrNoTeam
	}

	return nil
}
