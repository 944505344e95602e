package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/mocks"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/store"
)

// testEnv bundles mock-backed services and handlers for handler tests.
type testEnv struct {
	userStore *mocks.MockUserStore
	teamStore *mocks.MockTeamStore
	taskStore *mocks.MockTaskStore

	authHandler *AuthHandler
	userHandler *UserHandler
	teamHandler *TeamHandler
	taskHandler *TaskHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userStore := mocks.NewMockUserStore()
	teamStore := mocks.NewMockTeamStore()
	taskStore := mocks.NewMockTaskStore()
	teamStore.UserStore = userStore

	// Transactional writes run straight against the mocks.
	runInTx := func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, (*sql.Tx)(nil))
	}

	logger := slog.Default()
	authService := service.NewAuthService(
		userStore,
		&mocks.MockPasswordHasher{},
		&mocks.MockJWTService{Token: "test-token"},
		logger,
	)
	userService := service.NewUserService(userStore, logger)
	teamService := service.NewTeamService(teamStore, userStore, taskStore, logger)
	taskService := service.NewTaskService(taskStore, teamStore, userStore, runInTx, logger)

	return &testEnv{
		userStore:   userStore,
		teamStore:   teamStore,
		taskStore:   taskStore,
		authHandler: NewAuthHandler(authService, userService),
		userHandler: NewUserHandler(userService),
		teamHandler: NewTeamHandler(teamService),
		taskHandler: NewTaskHandler(taskService),
	}
}

func (e *testEnv) mustUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Test User", email, "hashed:secret123")
	require.NoError(t, err)
	user.Role = role
	require.NoError(t, e.userStore.Create(context.Background(), user))
	return user
}

func (e *testEnv) mustTeam(t *testing.T, name string, memberIDs ...uuid.UUID) *domain.Team {
	t.Helper()
	team, err := domain.NewTeam(name, nil)
	require.NoError(t, err)
	require.NoError(t, e.teamStore.Create(context.Background(), team))
	for _, id := range memberIDs {
		_, err := e.teamStore.AddMember(context.Background(), team.ID, id)
		require.NoError(t, err)
	}
	return team
}

func (e *testEnv) mustTask(t *testing.T, assigneeID, teamID uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask("Fix login flow", nil, "", "", assigneeID, teamID)
	require.NoError(t, err)
	require.NoError(t, e.taskStore.Create(context.Background(), task))
	return task
}

func callerFor(user *domain.User) *service.Caller {
	return &service.Caller{ID: user.ID, Role: user.Role}
}

// doRequest executes a handler with an optional authenticated caller and
// chi URL params, returning the recorded response.
func doRequest(
	t *testing.T,
	handler http.HandlerFunc,
	method, target string,
	caller *service.Caller,
	body any,
	params map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()

	if caller != nil {
		ctx = context.WithValue(ctx, shared.CallerContextKey, *caller)
	}

	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for key, value := range params {
			routeCtx.URLParams.Add(key, value)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}

	req = req.WithContext(ctx)
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

// decodeData unmarshals the data field of a success envelope into out and
// returns the meta block, if any.
func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, out any) *shared.Meta {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *shared.Meta    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
	return envelope.Meta
}

// decodeError unmarshals an error envelope.
func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) shared.ErrorBody {
	t.Helper()

	var envelope shared.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Error
}
