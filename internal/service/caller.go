package service

import (
	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// Caller identifies the authenticated user on whose behalf an operation
// runs. Every policy decision starts from this pair.
type Caller struct {
	ID   uuid.UUID
	Role domain.Role
}

// IsAdmin reports whether the caller has unrestricted access.
func (c Caller) IsAdmin() bool {
	return c.Role.IsAdmin()
}
