package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
)

// Request payloads. Length limits mirror what clients of the public API
// have always been held to.

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the payload for the admin user-update
// endpoint. At least one field must be present; the service enforces it.
type UpdateUserRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=100"`
	Role *string `json:"role" validate:"omitempty,oneof=admin member"`
}

// CreateTeamRequest defines the payload for team creation.
type CreateTeamRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// UpdateTeamRequest defines the payload for team update.
type UpdateTeamRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// AddMemberRequest defines the payload for adding a team member.
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// CreateTaskRequest defines the payload for task creation. Status and
// priority accept any recognized label or synonym and default to pending
// and medium when omitted.
type CreateTaskRequest struct {
	Title       string    `json:"title"       validate:"required,min=2,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssigneeID  uuid.UUID `json:"assigned_to" validate:"required"`
	TeamID      uuid.UUID `json:"team_id"     validate:"required"`
}

// UpdateTaskRequest defines the payload for a full task update. All
// fields are optional; absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=2,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assigned_to"`
	TeamID      *uuid.UUID `json:"team_id"`
}

// UpdateTaskStatusRequest defines the payload for the status endpoint.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response payloads.

// AuthResponse bundles the authenticated user with a fresh access token.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// TeamResponse is a team optionally embedding its member list.
type TeamResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	Members     []domain.User `json:"members,omitempty"`
}

// TaskResponse is the outbound task representation. Status and priority
// carry the display labels ("Pendente", "Alta", ...) the API has always
// spoken; the canonical values ride alongside for clients that filter.
type TaskResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Status        string    `json:"status"`
	StatusValue   string    `json:"status_value"`
	Priority      string    `json:"priority"`
	PriorityValue string    `json:"priority_value"`
	AssigneeID    uuid.UUID `json:"assigned_to"`
	TeamID        uuid.UUID `json:"team_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskHistoryResponse is one outbound status transition.
type TaskHistoryResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	ChangedBy uuid.UUID `json:"changed_by"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

func teamToAPI(team *domain.Team, members []domain.User) TeamResponse {
	return TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt,
		Members:     members,
	}
}

func teamsToAPI(teams []domain.Team) []TeamResponse {
	out := make([]TeamResponse, len(teams))
	for i := range teams {
		out[i] = teamToAPI(&teams[i], nil)
	}
	return out
}

func taskToAPI(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status.Label(),
		StatusValue:   string(task.Status),
		Priority:      task.Priority.Label(),
		PriorityValue: string(task.Priority),
		AssigneeID:    task.AssigneeID,
		TeamID:        task.TeamID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func tasksToAPI(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = taskToAPI(&tasks[i])
	}
	return out
}

func historyToAPI(entries []domain.TaskHistoryEntry) []TaskHistoryResponse {
	out := make([]TaskHistoryResponse, len(entries))
	for i, entry := range entries {
		out[i] = TaskHistoryResponse{
			ID:        entry.ID,
			TaskID:    entry.TaskID,
			ChangedBy: entry.ChangedBy,
			OldStatus: entry.OldStatus.Label(),
			NewStatus: entry.NewStatus.Label(),
			ChangedAt: entry.ChangedAt,
		}
	}
	return out
}

func roleFromString(raw *string) *domain.Role {
	if raw == nil {
		return nil
	}
	role := domain.Role(*raw)
	return &role
}

func userPatchFromRequest(req UpdateUserRequest) service.UserPatch {
	return service.UserPatch{
		Name: req.Name,
		Role: roleFromString(req.Role),
	}
}
