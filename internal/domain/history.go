package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoTransition is returned when a history entry would record a
// transition to the same status.
var ErrNoTransition = errors.New("history entry requires a status change")

// TaskHistoryEntry is an immutable record of one status transition on a
// task. Entries are append-only: exactly one is created per accepted
// transition where the old and new statuses differ, and none is ever
// updated or deleted.
type TaskHistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	ChangedBy uuid.UUID `json:"changed_by"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewTaskHistoryEntry creates a history entry for the transition from
// oldStatus to newStatus, attributed to changedBy.
func NewTaskHistoryEntry(taskID, changedBy uuid.UUID, oldStatus, newStatus Status) (*TaskHistoryEntry, error) {
	if !oldStatus.Valid() {
		return nil, ErrInvalidStatus
	}
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}
	if oldStatus == newStatus {
		return nil, ErrNoTransition
	}

	return &TaskHistoryEntry{
		ID:        uuid.New(),
		TaskID:    taskID,
		ChangedBy: changedBy,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedAt: time.Now().UTC(),
	}, nil
}
