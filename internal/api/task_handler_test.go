package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
)

func TestTaskHandlerCreate(t *testing.T) {
	t.Run("member creates a task for themselves", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)

		recorder := doRequest(t, env.taskHandler.Create, http.MethodPost, "/api/tasks",
			callerFor(member),
			map[string]any{
				"title":       "Fix login flow",
				"status":      "Em progresso",
				"priority":    "alta",
				"assigned_to": member.ID,
				"team_id":     team.ID,
			}, nil)

		require.Equal(t, http.StatusCreated, recorder.Code)
		var task TaskResponse
		decodeData(t, recorder, &task)
		assert.Equal(t, "Fix login flow", task.Title)
		assert.Equal(t, "Em progresso", task.Status)
		assert.Equal(t, string(domain.StatusInProgress), task.StatusValue)
		assert.Equal(t, "Alta", task.Priority)
		assert.Equal(t, string(domain.PriorityHigh), task.PriorityValue)
		assert.Equal(t, member.ID, task.AssigneeID)
		assert.Equal(t, team.ID, task.TeamID)
	})

	t.Run("member assigning to someone else is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		other := env.mustUser(t, "other@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID, other.ID)

		recorder := doRequest(t, env.taskHandler.Create, http.MethodPost, "/api/tasks",
			callerFor(member),
			map[string]any{
				"title":       "Fix login flow",
				"assigned_to": other.ID,
				"team_id":     team.ID,
			}, nil)

		require.Equal(t, http.StatusForbidden, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeForbidden), body.Code)
	})

	t.Run("assignee outside the team", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.mustUser(t, "admin@example.com", domain.RoleAdmin)
		outsider := env.mustUser(t, "outsider@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform")

		recorder := doRequest(t, env.taskHandler.Create, http.MethodPost, "/api/tasks",
			callerFor(admin),
			map[string]any{
				"title":       "Fix login flow",
				"assigned_to": outsider.ID,
				"team_id":     team.ID,
			}, nil)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeInvalidAssignee), body.Code)
	})

	t.Run("missing title yields field details", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)

		recorder := doRequest(t, env.taskHandler.Create, http.MethodPost, "/api/tasks",
			callerFor(member),
			map[string]any{
				"assigned_to": member.ID,
				"team_id":     team.ID,
			}, nil)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeValidation), body.Code)
		assert.Contains(t, body.Details, "title")
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)

		recorder := doRequest(t, env.taskHandler.Create, http.MethodPost, "/api/tasks",
			callerFor(member), "not-an-object", nil)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeValidation), body.Code)
	})

	t.Run("no caller in context", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := doRequest(t, env.taskHandler.Create, http.MethodPost, "/api/tasks",
			nil, map[string]any{"title": "Fix login flow"}, nil)

		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeAuthRequired), body.Code)
	})
}

func TestTaskHandlerList(t *testing.T) {
	t.Run("paginates with meta", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.mustUser(t, "admin@example.com", domain.RoleAdmin)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)
		for i := 0; i < 3; i++ {
			env.mustTask(t, member.ID, team.ID)
		}

		recorder := doRequest(t, env.taskHandler.List, http.MethodGet,
			"/api/tasks?page=1&pageSize=2", callerFor(admin), nil, nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var tasks []TaskResponse
		meta := decodeData(t, recorder, &tasks)
		assert.Len(t, tasks, 2)
		require.NotNil(t, meta)
		assert.Equal(t, 3, meta.Total)
		assert.Equal(t, 1, meta.Page)
		assert.Equal(t, 2, meta.PageSize)
	})

	t.Run("member filtering a foreign team is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		env.mustTeam(t, "Platform", member.ID)
		foreign := env.mustTeam(t, "Design")

		recorder := doRequest(t, env.taskHandler.List, http.MethodGet,
			"/api/tasks?teamId="+foreign.ID.String(), callerFor(member), nil, nil)

		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("invalid query parameters are rejected", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.mustUser(t, "admin@example.com", domain.RoleAdmin)

		for _, target := range []string{
			"/api/tasks?teamId=nope",
			"/api/tasks?assignedTo=nope",
			"/api/tasks?page=0",
			"/api/tasks?pageSize=abc",
		} {
			recorder := doRequest(t, env.taskHandler.List, http.MethodGet, target,
				callerFor(admin), nil, nil)
			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code, target)
		}
	})
}

func TestTaskHandlerGet(t *testing.T) {
	t.Run("returns the task", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)
		task := env.mustTask(t, member.ID, team.ID)

		recorder := doRequest(t, env.taskHandler.Get, http.MethodGet, "/api/tasks/"+task.ID.String(),
			callerFor(member), nil, map[string]string{"id": task.ID.String()})

		require.Equal(t, http.StatusOK, recorder.Code)
		var got TaskResponse
		decodeData(t, recorder, &got)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "Pendente", got.Status)
	})

	t.Run("malformed id", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)

		recorder := doRequest(t, env.taskHandler.Get, http.MethodGet, "/api/tasks/nope",
			callerFor(member), nil, map[string]string{"id": "nope"})

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		id := uuid.New().String()

		recorder := doRequest(t, env.taskHandler.Get, http.MethodGet, "/api/tasks/"+id,
			callerFor(member), nil, map[string]string{"id": id})

		require.Equal(t, http.StatusNotFound, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeNotFound), body.Code)
	})
}

func TestTaskHandlerUpdateStatus(t *testing.T) {
	t.Run("status change is journaled", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)
		task := env.mustTask(t, member.ID, team.ID)

		recorder := doRequest(t, env.taskHandler.UpdateStatus, http.MethodPatch,
			"/api/tasks/"+task.ID.String()+"/status",
			callerFor(member),
			map[string]any{"status": "concluído"},
			map[string]string{"id": task.ID.String()})

		require.Equal(t, http.StatusOK, recorder.Code)
		var got TaskResponse
		decodeData(t, recorder, &got)
		assert.Equal(t, "Concluído", got.Status)

		history := doRequest(t, env.taskHandler.History, http.MethodGet,
			"/api/tasks/"+task.ID.String()+"/history",
			callerFor(member), nil, map[string]string{"id": task.ID.String()})

		require.Equal(t, http.StatusOK, history.Code)
		var entries []TaskHistoryResponse
		decodeData(t, history, &entries)
		require.Len(t, entries, 1)
		assert.Equal(t, "Pendente", entries[0].OldStatus)
		assert.Equal(t, "Concluído", entries[0].NewStatus)
		assert.Equal(t, member.ID, entries[0].ChangedBy)
	})

	t.Run("unrecognized status label", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)
		task := env.mustTask(t, member.ID, team.ID)

		recorder := doRequest(t, env.taskHandler.UpdateStatus, http.MethodPatch,
			"/api/tasks/"+task.ID.String()+"/status",
			callerFor(member),
			map[string]any{"status": "archived"},
			map[string]string{"id": task.ID.String()})

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestTaskHandlerUpdate(t *testing.T) {
	t.Run("member cannot reassign", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		other := env.mustUser(t, "other@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID, other.ID)
		task := env.mustTask(t, member.ID, team.ID)

		recorder := doRequest(t, env.taskHandler.Update, http.MethodPut,
			"/api/tasks/"+task.ID.String(),
			callerFor(member),
			map[string]any{"assigned_to": other.ID},
			map[string]string{"id": task.ID.String()})

		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin updates title and priority", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.mustUser(t, "admin@example.com", domain.RoleAdmin)
		member := env.mustUser(t, "member@example.com", domain.RoleMember)
		team := env.mustTeam(t, "Platform", member.ID)
		task := env.mustTask(t, member.ID, team.ID)

		recorder := doRequest(t, env.taskHandler.Update, http.MethodPut,
			"/api/tasks/"+task.ID.String(),
			callerFor(admin),
			map[string]any{"title": "Harden login flow", "priority": "Baixa"},
			map[string]string{"id": task.ID.String()})

		require.Equal(t, http.StatusOK, recorder.Code)
		var got TaskResponse
		decodeData(t, recorder, &got)
		assert.Equal(t, "Harden login flow", got.Title)
		assert.Equal(t, "Baixa", got.Priority)
	})
}

func TestTaskHandlerDelete(t *testing.T) {
	env := newTestEnv(t)
	member := env.mustUser(t, "member@example.com", domain.RoleMember)
	team := env.mustTeam(t, "Platform", member.ID)
	task := env.mustTask(t, member.ID, team.ID)

	recorder := doRequest(t, env.taskHandler.Delete, http.MethodDelete,
		"/api/tasks/"+task.ID.String(),
		callerFor(member), nil, map[string]string{"id": task.ID.String()})

	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())

	again := doRequest(t, env.taskHandler.Delete, http.MethodDelete,
		"/api/tasks/"+task.ID.String(),
		callerFor(member), nil, map[string]string{"id": task.ID.String()})
	assert.Equal(t, http.StatusNotFound, again.Code)
}
