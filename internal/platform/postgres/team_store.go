package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// PostgresTeamStore implements the store.TeamStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTeamStore struct {
	db store.DBTX
}

// NewPostgresTeamStore creates a new PostgreSQL implementation of the
// TeamStore interface.
func NewPostgresTeamStore(db store.DBTX) *PostgresTeamStore {
	return &PostgresTeamStore{db: db}
}

// Ensure PostgresTeamStore implements store.TeamStore.
var _ store.TeamStore = (*PostgresTeamStore)(nil)

// WithTx returns a TeamStore that runs against the provided transaction.
func (s *PostgresTeamStore) WithTx(tx *sql.Tx) store.TeamStore {
	return &PostgresTeamStore{db: tx}
}

// Create implements store.TeamStore.Create.
func (s *PostgresTeamStore) Create(ctx context.Context, team *domain.Team) error {
	if err := team.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO teams (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query, team.ID, team.Name, team.Description, team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID implements store.TeamStore.GetByID.
func (s *PostgresTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	query := "SELECT id, name, description, created_at FROM teams WHERE id = $1"

	var t domain.Team
	var description sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &description, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if description.Valid {
		t.Description = &description.String
	}

	return &t, nil
}

// List implements store.TeamStore.List.
func (s *PostgresTeamStore) List(ctx context.Context) ([]domain.Team, error) {
	query := "SELECT id, name, description, created_at FROM teams ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTeams(rows)
}

// ListByUser implements store.TeamStore.ListByUser.
func (s *PostgresTeamStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTeams(rows)
}

// Update implements store.TeamStore.Update.
func (s *PostgresTeamStore) Update(ctx context.Context, team *domain.Team) error {
	if err := team.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := "UPDATE teams SET name = $1, description = $2 WHERE id = $3"

	result, err := s.db.ExecContext(ctx, query, team.Name, team.Description, team.ID)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	return requireRowsAffected(result, store.ErrTeamNotFound)
}

// Delete implements store.TeamStore.Delete. Memberships are removed by
// the ON DELETE CASCADE on team_members; tasks referencing the team make
// the delete fail with a foreign key violation, which the service layer
// surfaces as a conflict.
func (s *PostgresTeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM teams WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrTeamHasTasks
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return requireRowsAffected(result, store.ErrTeamNotFound)
}

// AddMember implements store.TeamStore.AddMember.
func (s *PostgresTeamStore) AddMember(ctx context.Context, teamID, userID uuid.UUID) (*domain.Membership, error) {
	membership := &domain.Membership{
		TeamID:    teamID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO team_members (team_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.ExecContext(ctx, query, membership.TeamID, membership.UserID, membership.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrMembershipExists
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	return membership, nil
}

// RemoveMember implements store.TeamStore.RemoveMember.
func (s *PostgresTeamStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	query := "DELETE FROM team_members WHERE team_id = $1 AND user_id = $2"

	result, err := s.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return requireRowsAffected(result, store.ErrMembershipNotFound)
}

// IsMember implements store.TeamStore.IsMember.
func (s *PostgresTeamStore) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)"

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}

	return exists, nil
}

// ListMembers implements store.TeamStore.ListMembers.
func (s *PostgresTeamStore) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.hashed_password, u.role, u.created_at, u.updated_at
		FROM users u
		JOIN team_members m ON m.user_id = u.id
		WHERE m.team_id = $1
		ORDER BY m.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return users, nil
}

// TeamIDsForUser implements store.TeamStore.TeamIDsForUser.
func (s *PostgresTeamStore) TeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := "SELECT team_id FROM team_members WHERE user_id = $1"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team ids for user: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team id rows: %w", err)
	}

	return ids, nil
}

func scanTeams(rows *sql.Rows) ([]domain.Team, error) {
	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		var description sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		if description.Valid {
			t.Description = &description.String
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}
