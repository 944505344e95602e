package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// TeamStore defines the interface for team and membership persistence.
// Memberships have no identity beyond the (team, user) pair, so they are
// managed through the team store rather than a store of their own.
type TeamStore interface {
	// Create saves a new team to the store.
	Create(ctx context.Context, team *domain.Team) error

	// GetByID retrieves a team by its ID.
	// Returns ErrTeamNotFound if the team does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)

	// List retrieves all teams ordered by creation time.
	List(ctx context.Context) ([]domain.Team, error)

	// ListByUser retrieves the teams the given user is a member of.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Team, error)

	// Update modifies an existing team's name and description.
	// Returns ErrTeamNotFound if the team does not exist.
	Update(ctx context.Context, team *domain.Team) error

	// Delete removes a team and its memberships.
	// Returns ErrTeamNotFound if the team does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddMember creates a membership edge between the team and the user.
	// Returns ErrMembershipExists if the user is already a member.
	AddMember(ctx context.Context, teamID, userID uuid.UUID) (*domain.Membership, error)

	// RemoveMember removes the membership edge.
	// Returns ErrMembershipNotFound if the user is not a member.
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error

	// IsMember reports whether the user is currently a member of the team.
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)

	// ListMembers retrieves the users that are members of the team.
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.User, error)

	// TeamIDsForUser retrieves the IDs of all teams the user belongs to.
	TeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a TeamStore that runs against the provided transaction.
	WithTx(tx *sql.Tx) TeamStore
}
