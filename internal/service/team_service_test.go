package service

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/mocks"
)

type teamServiceFixture struct {
	service   *TeamService
	userStore *mocks.MockUserStore
	teamStore *mocks.MockTeamStore
	taskStore *mocks.MockTaskStore

	admin  Caller
	member Caller

	team *domain.Team
}

func newTeamServiceFixture(t *testing.T) *teamServiceFixture {
	t.Helper()
	ctx := context.Background()

	userStore := mocks.NewMockUserStore()
	teamStore := mocks.NewMockTeamStore()
	taskStore := mocks.NewMockTaskStore()
	teamStore.UserStore = userStore

	svc := NewTeamService(teamStore, userStore, taskStore, slog.Default())

	admin := mustUser(t, userStore, "admin@example.com", domain.RoleAdmin)
	member := mustUser(t, userStore, "member@example.com", domain.RoleMember)

	team, err := domain.NewTeam("Platform", nil)
	require.NoError(t, err)
	require.NoError(t, teamStore.Create(ctx, team))
	_, err = teamStore.AddMember(ctx, team.ID, member.ID)
	require.NoError(t, err)

	return &teamServiceFixture{
		service:   svc,
		userStore: userStore,
		teamStore: teamStore,
		taskStore: taskStore,
		admin:     Caller{ID: admin.ID, Role: domain.RoleAdmin},
		member:    Caller{ID: member.ID, Role: domain.RoleMember},
		team:      team,
	}
}

func TestTeamServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("member sees own team with members", func(t *testing.T) {
		f := newTeamServiceFixture(t)

		result, err := f.service.Get(ctx, f.member, f.team.ID)
		require.NoError(t, err)
		assert.Equal(t, f.team.ID, result.Team.ID)
		require.Len(t, result.Members, 1)
		assert.Equal(t, f.member.ID, result.Members[0].ID)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		f := newTeamServiceFixture(t)
		outsider := mustUser(t, f.userStore, "outsider@example.com", domain.RoleMember)

		_, err := f.service.Get(ctx, Caller{ID: outsider.ID, Role: domain.RoleMember}, f.team.ID)
		assertAppError(t, err, http.StatusForbidden, CodeForbidden)
	})

	t.Run("admin sees any team", func(t *testing.T) {
		f := newTeamServiceFixture(t)

		_, err := f.service.Get(ctx, f.admin, f.team.ID)
		require.NoError(t, err)
	})

	t.Run("unknown team", func(t *testing.T) {
		f := newTeamServiceFixture(t)

		_, err := f.service.Get(ctx, f.admin, uuid.New())
		assertAppError(t, err, http.StatusNotFound, CodeNotFound)
	})
}

func TestTeamServiceList(t *testing.T) {
	ctx := context.Background()
	f := newTeamServiceFixture(t)

	second, err := domain.NewTeam("Design", nil)
	require.NoError(t, err)
	require.NoError(t, f.teamStore.Create(ctx, second))

	adminTeams, err := f.service.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, adminTeams, 2)

	memberTeams, err := f.service.List(ctx, f.member)
	require.NoError(t, err)
	require.Len(t, memberTeams, 1)
	assert.Equal(t, f.team.ID, memberTeams[0].ID)
}

func TestTeamServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an empty team", func(t *testing.T) {
		f := newTeamServiceFixture(t)

		require.NoError(t, f.service.Delete(ctx, f.team.ID))
		_, err := f.service.Get(ctx, f.admin, f.team.ID)
		assertAppError(t, err, http.StatusNotFound, CodeNotFound)
	})

	t.Run("blocked while tasks reference the team", func(t *testing.T) {
		f := newTeamServiceFixture(t)
		task, err := domain.NewTask("Fix login flow", nil, "", "", f.member.ID, f.team.ID)
		require.NoError(t, err)
		require.NoError(t, f.taskStore.Create(ctx, task))

		err = f.service.Delete(ctx, f.team.ID)
		assertAppError(t, err, http.StatusConflict, CodeConflict)
	})
}

func TestTeamServiceMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("add and remove member", func(t *testing.T) {
		f := newTeamServiceFixture(t)
		user := mustUser(t, f.userStore, "new@example.com", domain.RoleMember)

		membership, err := f.service.AddMember(ctx, f.team.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, f.team.ID, membership.TeamID)
		assert.Equal(t, user.ID, membership.UserID)

		require.NoError(t, f.service.RemoveMember(ctx, f.team.ID, user.ID))
	})

	t.Run("duplicate membership is a conflict", func(t *testing.T) {
		f := newTeamServiceFixture(t)

		_, err := f.service.AddMember(ctx, f.team.ID, f.member.ID)
		assertAppError(t, err, http.StatusConflict, CodeConflict)
	})

	t.Run("adding an unknown user", func(t *testing.T) {
		f := newTeamServiceFixture(t)

		_, err := f.service.AddMember(ctx, f.team.ID, uuid.New())
		assertAppError(t, err, http.StatusNotFound, CodeNotFound)
	})

	t.Run("removing a non-member", func(t *testing.T) {
		f := newTeamServiceFixture(t)
		user := mustUser(t, f.userStore, "new@example.com", domain.RoleMember)

		err := f.service.RemoveMember(ctx, f.team.ID, user.ID)
		assertAppError(t, err, http.StatusNotFound, CodeNotFound)
	})
}

func TestTeamServiceUpdate(t *testing.T) {
	ctx := context.Background()
	f := newTeamServiceFixture(t)

	name := "Platform Engineering"
	description := "Owns the deployment pipeline"
	updated, err := f.service.Update(ctx, f.team.ID, TeamPatch{Name: &name, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, description, *updated.Description)

	// an empty description clears it
	empty := ""
	updated, err = f.service.Update(ctx, f.team.ID, TeamPatch{Description: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}
