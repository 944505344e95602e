package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common team validation errors.
var (
	ErrEmptyTeamID   = errors.New("team ID cannot be empty")
	ErrEmptyTeamName = errors.New("team name cannot be empty")
)

// Team groups users that collaborate on tasks.
// Teams are created, updated and deleted only by admins.
type Team struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTeam creates a new Team with the given name and optional description.
func NewTeam(name string, description *string) (*Team, error) {
	team := &Team{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := team.Validate(); err != nil {
		return nil, err
	}

	return team, nil
}

// Validate checks if the Team has valid data.
func (t *Team) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTeamID
	}

	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTeamName
	}

	return nil
}

// Membership is the edge granting a user visibility of and participation
// in a team. A user appears at most once per team.
type Membership struct {
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
