package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskDefaults(t *testing.T) {
	assignee := uuid.New()
	team := uuid.New()

	task, err := NewTask("Write release notes", nil, "", "", assignee, team)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, assignee, task.AssigneeID)
	assert.Equal(t, team, task.TeamID)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestNewTaskValidation(t *testing.T) {
	assignee := uuid.New()
	team := uuid.New()

	tests := []struct {
		name     string
		title    string
		status   Status
		priority Priority
		assignee uuid.UUID
		team     uuid.UUID
		wantErr  error
	}{
		{
			name:     "empty title",
			title:    "   ",
			assignee: assignee,
			team:     team,
			wantErr:  ErrEmptyTaskTitle,
		},
		{
			name:     "missing assignee",
			title:    "Triage bug reports",
			assignee: uuid.Nil,
			team:     team,
			wantErr:  ErrNoAssignee,
		},
		{
			name:     "missing team",
			title:    "Triage bug reports",
			assignee: assignee,
			team:     uuid.Nil,
			wantErr:  ErrNoTeam,
		},
		{
			name:     "invalid status",
			title:    "Triage bug reports",
			status:   Status("done"),
			assignee: assignee,
			team:     team,
			wantErr:  ErrInvalidStatus,
		},
		{
			name:     "invalid priority",
			title:    "Triage bug reports",
			priority: Priority("urgent"),
			assignee: assignee,
			team:     team,
			wantErr:  ErrInvalidPriority,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTask(tc.title, nil, tc.status, tc.priority, tc.assignee, tc.team)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewTaskHistoryEntry(t *testing.T) {
	taskID := uuid.New()
	userID := uuid.New()

	t.Run("valid transition", func(t *testing.T) {
		entry, err := NewTaskHistoryEntry(taskID, userID, StatusPending, StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, taskID, entry.TaskID)
		assert.Equal(t, userID, entry.ChangedBy)
		assert.Equal(t, StatusPending, entry.OldStatus)
		assert.Equal(t, StatusInProgress, entry.NewStatus)
	})

	t.Run("same status rejected", func(t *testing.T) {
		_, err := NewTaskHistoryEntry(taskID, userID, StatusPending, StatusPending)
		assert.ErrorIs(t, err, ErrNoTransition)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := NewTaskHistoryEntry(taskID, userID, Status("done"), StatusPending)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
