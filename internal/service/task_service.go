package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// Pagination bounds for task listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TaskService implements the task lifecycle policy: who may view, create,
// edit, reassign or delete a task, and when a status transition is
// journaled. A history entry and its status write commit together or not
// at all.
type TaskService struct {
	taskStore store.TaskStore
	teamStore store.TeamStore
	userStore store.UserStore
	runInTx   store.TxRunner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService. runInTx runs the
// history-plus-status writes in a single transaction.
func NewTaskService(
	taskStore store.TaskStore,
	teamStore store.TeamStore,
	userStore store.UserStore,
	runInTx store.TxRunner,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		taskStore: taskStore,
		teamStore: teamStore,
		userStore: userStore,
		runInTx:   runInTx,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTaskInput carries the payload for task creation. Status and
// Priority are free-form labels resolved through the synonym table;
// empty means "not provided" and falls back to the defaults.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	AssigneeID  uuid.UUID
	TeamID      uuid.UUID
}

// TaskPatch carries the recognized fields of a full task update.
// nil fields are left unchanged. Status and Priority are free-form labels.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssigneeID  *uuid.UUID
	TeamID      *uuid.UUID
}

// ListTasksInput carries filters and pagination for task listings.
type ListTasksInput struct {
	TeamID     *uuid.UUID
	AssigneeID *uuid.UUID
	Status     string
	Priority   string
	Search     string
	Page       int
	PageSize   int
}

// TaskPage is one page of a task listing together with the total number
// of matches under the same filter.
type TaskPage struct {
	Tasks    []domain.Task
	Total    int
	Page     int
	PageSize int
}

// Create persists a new task after running the creation policy:
// the team must exist, the caller must be an admin or a member of the
// team, the assignee must exist and belong to the team, and non-admin
// members may only assign to themselves. Status defaults to pending and
// priority to medium. No history entry accompanies creation.
func (s *TaskService) Create(ctx context.Context, caller Caller, input CreateTaskInput) (*domain.Task, error) {
	if _, err := s.ensureTeamExists(ctx, input.TeamID); err != nil {
		return nil, err
	}

	if err := s.ensureCallerInTeam(ctx, caller, input.TeamID); err != nil {
		return nil, err
	}

	status, err := resolveOptionalStatus(input.Status)
	if err != nil {
		return nil, err
	}
	priority, err := resolveOptionalPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAssigneeBelongsToTeam(ctx, input.TeamID, input.AssigneeID); err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && input.AssigneeID != caller.ID {
		return nil, Forbidden("Members can only assign tasks to themselves.")
	}

	task, err := domain.NewTask(input.Title, input.Description, status, priority, input.AssigneeID, input.TeamID)
	if err != nil {
		return nil, Validation(err.Error())
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task", "error", err, "team_id", input.TeamID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"team_id", task.TeamID,
		"assigned_to", task.AssigneeID)
	return task, nil
}

// Get retrieves a task. Members must belong to the task's team; a task
// that exists but is not visible yields Forbidden, not NotFound.
func (s *TaskService) Get(ctx context.Context, caller Caller, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCallerInTeam(ctx, caller, task.TeamID); err != nil {
		return nil, err
	}

	return task, nil
}

// List retrieves a page of tasks. Admins see everything, optionally
// narrowed to one team; members always see only their teams' tasks. A
// member filtering on a team outside their membership set is rejected
// with Forbidden rather than silently ignored.
func (s *TaskService) List(ctx context.Context, caller Caller, input ListTasksInput) (*TaskPage, error) {
	status, err := resolveOptionalStatus(input.Status)
	if err != nil {
		return nil, err
	}
	priority, err := resolveOptionalPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if input.TeamID != nil {
		if _, err := s.ensureTeamExists(ctx, *input.TeamID); err != nil {
			return nil, err
		}
	}

	var teamIDs []uuid.UUID
	if caller.IsAdmin() {
		if input.TeamID != nil {
			teamIDs = []uuid.UUID{*input.TeamID}
		}
	} else {
		membershipIDs, err := s.teamStore.TeamIDsForUser(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list team ids for user: %w", err)
		}
		if len(membershipIDs) == 0 {
			return &TaskPage{Tasks: []domain.Task{}, Total: 0, Page: page, PageSize: pageSize}, nil
		}

		if input.TeamID != nil {
			if !containsID(membershipIDs, *input.TeamID) {
				return nil, Forbidden("You cannot access this team.")
			}
			teamIDs = []uuid.UUID{*input.TeamID}
		} else {
			teamIDs = membershipIDs
		}
	}

	filter := store.TaskFilter{
		TeamIDs:    teamIDs,
		AssigneeID: input.AssigneeID,
		Search:     input.Search,
		Page:       page,
		PageSize:   pageSize,
	}
	if status != "" {
		filter.Status = &status
	}
	if priority != "" {
		filter.Priority = &priority
	}

	tasks, total, err := s.taskStore.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "caller_id", caller.ID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskPage{Tasks: tasks, Total: total, Page: page, PageSize: pageSize}, nil
}

// Update applies a full update. Only admins and the current assignee may
// edit; non-admins may not reassign or move the task (submitting the
// current value is a no-op, not an offense). When the team or assignee
// effectively changes, the assignment invariant is re-validated against
// the target team. A supplied status that resolves to a different value
// is journaled along with the update in one transaction.
func (s *TaskService) Update(ctx context.Context, caller Caller, taskID uuid.UUID, patch TaskPatch) (*domain.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanEditTask(ctx, caller, task); err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		if patch.AssigneeID != nil && *patch.AssigneeID != task.AssigneeID {
			return nil, Forbidden("Members cannot reassign tasks.")
		}
		if patch.TeamID != nil && *patch.TeamID != task.TeamID {
			return nil, Forbidden("Members cannot move tasks to another team.")
		}
	}

	var status domain.Status
	if patch.Status != nil {
		status, err = resolveRequiredStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
	}
	var priority domain.Priority
	if patch.Priority != nil {
		priority, err = resolveRequiredPriority(*patch.Priority)
		if err != nil {
			return nil, err
		}
	}

	targetTeamID := task.TeamID
	if patch.TeamID != nil {
		targetTeamID = *patch.TeamID
	}
	targetAssigneeID := task.AssigneeID
	if patch.AssigneeID != nil {
		targetAssigneeID = *patch.AssigneeID
	}

	if targetTeamID != task.TeamID || targetAssigneeID != task.AssigneeID {
		if targetTeamID != task.TeamID {
			if _, err := s.ensureTeamExists(ctx, targetTeamID); err != nil {
				return nil, err
			}
		}
		// The assignee must belong to the team the task will end up in.
		if err := s.ensureAssigneeBelongsToTeam(ctx, targetTeamID, targetAssigneeID); err != nil {
			return nil, err
		}
	}

	oldStatus := task.Status

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			task.Description = nil
		} else {
			task.Description = patch.Description
		}
	}
	if patch.Status != nil && status != oldStatus {
		task.Status = status
	}
	if patch.Priority != nil {
		task.Priority = priority
	}
	task.AssigneeID = targetAssigneeID
	task.TeamID = targetTeamID
	task.UpdatedAt = time.Now().UTC()

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		if task.Status != oldStatus {
			entry, err := domain.NewTaskHistoryEntry(task.ID, caller.ID, oldStatus, task.Status)
			if err != nil {
				return err
			}
			if err := txStore.AppendHistory(ctx, entry); err != nil {
				return err
			}
		}

		return txStore.Update(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, NotFound("Task not found.")
		}
		s.logger.Error("failed to update task", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("task updated", "task_id", taskID, "changed_by", caller.ID)
	return task, nil
}

// UpdateStatus applies a status-only change. An unresolvable status is a
// validation error. A transition to the current status returns the task
// unchanged with no history write; otherwise the history entry and the
// status write commit in one transaction.
func (s *TaskService) UpdateStatus(ctx context.Context, caller Caller, taskID uuid.UUID, statusInput string) (*domain.Task, error) {
	status, ok := domain.ResolveStatus(statusInput)
	if !ok {
		return nil, Validation("Invalid status provided.")
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanEditTask(ctx, caller, task); err != nil {
		return nil, err
	}

	if status == task.Status {
		return task, nil
	}

	oldStatus := task.Status
	task.Status = status
	task.UpdatedAt = time.Now().UTC()

	err = s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		entry, err := domain.NewTaskHistoryEntry(task.ID, caller.ID, oldStatus, status)
		if err != nil {
			return err
		}
		if err := txStore.AppendHistory(ctx, entry); err != nil {
			return err
		}

		return txStore.Update(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, NotFound("Task not found.")
		}
		s.logger.Error("failed to update task status", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Info("task status changed",
		"task_id", taskID,
		"old_status", oldStatus,
		"new_status", status,
		"changed_by", caller.ID)
	return task, nil
}

// Delete removes a task. Admins may delete any task; members only tasks
// currently assigned to them, and only while they are still a member of
// the task's team.
func (s *TaskService) Delete(ctx context.Context, caller Caller, taskID uuid.UUID) error {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() {
		if task.AssigneeID != caller.ID {
			return Forbidden("Members can only delete their own tasks.")
		}
		if err := s.ensureCallerInTeam(ctx, caller, task.TeamID); err != nil {
			return err
		}
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return NotFound("Task not found.")
		}
		s.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", taskID, "deleted_by", caller.ID)
	return nil
}

// History retrieves a task's status transitions, most recent first, under
// the same visibility rule as Get.
func (s *TaskService) History(ctx context.Context, caller Caller, taskID uuid.UUID) ([]domain.TaskHistoryEntry, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCallerInTeam(ctx, caller, task.TeamID); err != nil {
		return nil, err
	}

	entries, err := s.taskStore.ListHistory(ctx, taskID)
	if err != nil {
		s.logger.Error("failed to list task history", "error", err, "task_id", taskID)
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}

	return entries, nil
}

func (s *TaskService) getTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, NotFound("Task not found.")
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureTeamExists(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	team, err := s.teamStore.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return nil, NotFound("Team not found.")
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// ensureCallerInTeam allows admins unconditionally and members only when
// they belong to the team.
func (s *TaskService) ensureCallerInTeam(ctx context.Context, caller Caller, teamID uuid.UUID) error {
	if caller.IsAdmin() {
		return nil
	}

	isMember, err := s.teamStore.IsMember(ctx, teamID, caller.ID)
	if err != nil {
		return fmt.Errorf("failed to check team membership: %w", err)
	}
	if !isMember {
		return Forbidden("You are not part of this team.")
	}

	return nil
}

// ensureAssigneeBelongsToTeam verifies the assignment invariant: the
// assignee exists and is a current member of the team.
func (s *TaskService) ensureAssigneeBelongsToTeam(ctx context.Context, teamID, userID uuid.UUID) error {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return NotFound("Assignee user not found.")
		}
		return fmt.Errorf("failed to get assignee: %w", err)
	}

	isMember, err := s.teamStore.IsMember(ctx, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to check assignee membership: %w", err)
	}
	if !isMember {
		return InvalidAssignee("Assignee must belong to the team.")
	}

	return nil
}

// ensureCanEditTask enforces the edit rule shared by Update, UpdateStatus
// and the status endpoint: admins always, members only when they belong
// to the task's team and the task is assigned to them.
func (s *TaskService) ensureCanEditTask(ctx context.Context, caller Caller, task *domain.Task) error {
	if caller.IsAdmin() {
		return nil
	}

	if err := s.ensureCallerInTeam(ctx, caller, task.TeamID); err != nil {
		return err
	}

	if task.AssigneeID != caller.ID {
		return Forbidden("Members can only edit tasks assigned to them.")
	}

	return nil
}

// resolveOptionalStatus treats empty input as absent and unrecognized
// input as a validation failure, never as a silent default.
func resolveOptionalStatus(input string) (domain.Status, error) {
	if input == "" {
		return "", nil
	}
	return resolveRequiredStatus(input)
}

func resolveRequiredStatus(input string) (domain.Status, error) {
	status, ok := domain.ResolveStatus(input)
	if !ok {
		return "", Validation("Invalid status provided.")
	}
	return status, nil
}

func resolveOptionalPriority(input string) (domain.Priority, error) {
	if input == "" {
		return "", nil
	}
	return resolveRequiredPriority(input)
}

func resolveRequiredPriority(input string) (domain.Priority, error) {
	priority, ok := domain.ResolvePriority(input)
	if !ok {
		return "", Validation("Invalid priority provided.")
	}
	return priority, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
