package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// TeamService implements the team and membership policy. Team mutation and
// membership management are admin-only (gated at the routing layer); reads
// are scoped to the caller's memberships.
type TeamService struct {
	teamStore store.TeamStore
	userStore store.UserStore
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTeamService creates a new TeamService.
func NewTeamService(
	teamStore store.TeamStore,
	userStore store.UserStore,
	taskStore store.TaskStore,
	logger *slog.Logger,
) *TeamService {
	return &TeamService{
		teamStore: teamStore,
		userStore: userStore,
		taskStore: taskStore,
		logger:    logger.With("component", "team_service"),
	}
}

// TeamPatch carries the recognized fields of a team update.
// nil fields are left unchanged; an empty description clears it.
type TeamPatch struct {
	Name        *string
	Description *string
}

// TeamWithMembers bundles a team with its current member list.
type TeamWithMembers struct {
	Team    *domain.Team
	Members []domain.User
}

// Create persists a new team.
func (s *TeamService) Create(ctx context.Context, name string, description *string) (*domain.Team, error) {
	team, err := domain.NewTeam(name, description)
	if err != nil {
		return nil, Validation(err.Error())
	}

	if err := s.teamStore.Create(ctx, team); err != nil {
		s.logger.Error("failed to create team", "error", err)
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info("team created", "team_id", team.ID)
	return team, nil
}

// List returns all teams for admins and the caller's teams for members.
func (s *TeamService) List(ctx context.Context, caller Caller) ([]domain.Team, error) {
	var (
		teams []domain.Team
		err   error
	)
	if caller.IsAdmin() {
		teams, err = s.teamStore.List(ctx)
	} else {
		teams, err = s.teamStore.ListByUser(ctx, caller.ID)
	}
	if err != nil {
		s.logger.Error("failed to list teams", "error", err, "caller_id", caller.ID)
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Get retrieves a team with its members. Members may only view teams they
// belong to; a team that exists but is not visible yields Forbidden, not
// NotFound.
func (s *TeamService) Get(ctx context.Context, caller Caller, teamID uuid.UUID) (*TeamWithMembers, error) {
	team, err := s.ensureTeamExists(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		isMember, err := s.teamStore.IsMember(ctx, teamID, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check team membership: %w", err)
		}
		if !isMember {
			return nil, Forbidden("You are not allowed to view this team.")
		}
	}

	members, err := s.teamStore.ListMembers(ctx, teamID)
	if err != nil {
		s.logger.Error("failed to list team members", "error", err, "team_id", teamID)
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return &TeamWithMembers{Team: team, Members: members}, nil
}

// Update applies a partial update of name and description.
func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, patch TeamPatch) (*domain.Team, error) {
	team, err := s.ensureTeamExists(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		team.Name = *patch.Name
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			team.Description = nil
		} else {
			team.Description = patch.Description
		}
	}

	if err := s.teamStore.Update(ctx, team); err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return nil, NotFound("Team not found.")
		}
		s.logger.Error("failed to update team", "error", err, "team_id", teamID)
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	s.logger.Info("team updated", "team_id", teamID)
	return team, nil
}

// Delete removes a team. Deletion is blocked while tasks still reference
// the team, surfaced as Conflict.
func (s *TeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	if _, err := s.ensureTeamExists(ctx, teamID); err != nil {
		return err
	}

	taskCount, err := s.taskStore.CountByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to count tasks for team: %w", err)
	}
	if taskCount > 0 {
		return Conflict(CodeConflict, "Team still has tasks and cannot be deleted.")
	}

	if err := s.teamStore.Delete(ctx, teamID); err != nil {
		switch {
		case errors.Is(err, store.ErrTeamNotFound):
			return NotFound("Team not found.")
		case errors.Is(err, store.ErrTeamHasTasks):
			// Backstop for tasks created between the count and the delete.
			return Conflict(CodeConflict, "Team still has tasks and cannot be deleted.")
		}
		s.logger.Error("failed to delete team", "error", err, "team_id", teamID)
		return fmt.Errorf("failed to delete team: %w", err)
	}

	s.logger.Info("team deleted", "team_id", teamID)
	return nil
}

// AddMember creates a membership. Adding an existing member yields Conflict.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID uuid.UUID) (*domain.Membership, error) {
	if _, err := s.ensureTeamExists(ctx, teamID); err != nil {
		return nil, err
	}

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NotFound("User not found.")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	membership, err := s.teamStore.AddMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipExists) {
			return nil, Conflict(CodeConflict, "User is already a member of this team.")
		}
		s.logger.Error("failed to add team member", "error", err, "team_id", teamID, "user_id", userID)
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	s.logger.Info("member added to team", "team_id", teamID, "user_id", userID)
	return membership, nil
}

// RemoveMember removes a membership. Removing a non-member yields NotFound.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if _, err := s.ensureTeamExists(ctx, teamID); err != nil {
		return err
	}

	if err := s.teamStore.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return NotFound("Member not found in this team.")
		}
		s.logger.Error("failed to remove team member", "error", err, "team_id", teamID, "user_id", userID)
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	s.logger.Info("member removed from team", "team_id", teamID, "user_id", userID)
	return nil
}

func (s *TeamService) ensureTeamExists(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	team, err := s.teamStore.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return nil, NotFound("Team not found.")
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}
