package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// MockTeamStore implements store.TeamStore for testing. The default
// implementation keeps teams and membership edges in memory; Members
// maps team ID to member user IDs in insertion order.
type MockTeamStore struct {
	CreateFn         func(ctx context.Context, team *domain.Team) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	ListFn           func(ctx context.Context) ([]domain.Team, error)
	ListByUserFn     func(ctx context.Context, userID uuid.UUID) ([]domain.Team, error)
	UpdateFn         func(ctx context.Context, team *domain.Team) error
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	AddMemberFn      func(ctx context.Context, teamID, userID uuid.UUID) (*domain.Membership, error)
	RemoveMemberFn   func(ctx context.Context, teamID, userID uuid.UUID) error
	IsMemberFn       func(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	ListMembersFn    func(ctx context.Context, teamID uuid.UUID) ([]domain.User, error)
	TeamIDsForUserFn func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	Teams   map[uuid.UUID]*domain.Team
	Members map[uuid.UUID][]uuid.UUID

	// UserStore resolves member user IDs for ListMembers when set.
	UserStore *MockUserStore
}

// NewMockTeamStore creates a new mock store with initialized defaults.
func NewMockTeamStore() *MockTeamStore {
	return &MockTeamStore{
		Teams:   make(map[uuid.UUID]*domain.Team),
		Members: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create implements the TeamStore interface.
func (m *MockTeamStore) Create(ctx context.Context, team *domain.Team) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, team)
	}
	m.Teams[team.ID] = team
	return nil
}

// GetByID implements the TeamStore interface.
func (m *MockTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	team, exists := m.Teams[id]
	if !exists {
		return nil, store.ErrTeamNotFound
	}
	return team, nil
}

// List implements the TeamStore interface, ordered by creation time.
func (m *MockTeamStore) List(ctx context.Context) ([]domain.Team, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	teams := make([]domain.Team, 0, len(m.Teams))
	for _, team := range m.Teams {
		teams = append(teams, *team)
	}
	sortTeams(teams)
	return teams, nil
}

// ListByUser implements the TeamStore interface.
func (m *MockTeamStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Team, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	var teams []domain.Team
	for teamID, members := range m.Members {
		for _, memberID := range members {
			if memberID == userID {
				if team, exists := m.Teams[teamID]; exists {
					teams = append(teams, *team)
				}
				break
			}
		}
	}
	sortTeams(teams)
	return teams, nil
}

// Update implements the TeamStore interface.
func (m *MockTeamStore) Update(ctx context.Context, team *domain.Team) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, team)
	}
	if _, exists := m.Teams[team.ID]; !exists {
		return store.ErrTeamNotFound
	}
	m.Teams[team.ID] = team
	return nil
}

// Delete implements the TeamStore interface.
func (m *MockTeamStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, exists := m.Teams[id]; !exists {
		return store.ErrTeamNotFound
	}
	delete(m.Teams, id)
	delete(m.Members, id)
	return nil
}

// AddMember implements the TeamStore interface.
func (m *MockTeamStore) AddMember(ctx context.Context, teamID, userID uuid.UUID) (*domain.Membership, error) {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, teamID, userID)
	}
	for _, memberID := range m.Members[teamID] {
		if memberID == userID {
			return nil, store.ErrMembershipExists
		}
	}
	m.Members[teamID] = append(m.Members[teamID], userID)
	return &domain.Membership{TeamID: teamID, UserID: userID, CreatedAt: time.Now().UTC()}, nil
}

// RemoveMember implements the TeamStore interface.
func (m *MockTeamStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, teamID, userID)
	}
	members := m.Members[teamID]
	for i, memberID := range members {
		if memberID == userID {
			m.Members[teamID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return store.ErrMembershipNotFound
}

// IsMember implements the TeamStore interface.
func (m *MockTeamStore) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	if m.IsMemberFn != nil {
		return m.IsMemberFn(ctx, teamID, userID)
	}
	for _, memberID := range m.Members[teamID] {
		if memberID == userID {
			return true, nil
		}
	}
	return false, nil
}

// ListMembers implements the TeamStore interface. Without a linked
// UserStore it returns bare users carrying only their IDs.
func (m *MockTeamStore) ListMembers(ctx context.Context, teamID uuid.UUID) ([]domain.User, error) {
	if m.ListMembersFn != nil {
		return m.ListMembersFn(ctx, teamID)
	}
	members := make([]domain.User, 0, len(m.Members[teamID]))
	for _, memberID := range m.Members[teamID] {
		if m.UserStore != nil {
			if user, err := m.UserStore.GetByID(ctx, memberID); err == nil {
				members = append(members, *user)
				continue
			}
		}
		members = append(members, domain.User{ID: memberID})
	}
	return members, nil
}

// TeamIDsForUser implements the TeamStore interface.
func (m *MockTeamStore) TeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if m.TeamIDsForUserFn != nil {
		return m.TeamIDsForUserFn(ctx, userID)
	}
	var ids []uuid.UUID
	for teamID, members := range m.Members {
		for _, memberID := range members {
			if memberID == userID {
				ids = append(ids, teamID)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// WithTx implements the TeamStore interface.
func (m *MockTeamStore) WithTx(tx *sql.Tx) store.TeamStore {
	return m
}

func sortTeams(teams []domain.Team) {
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].ID.String() < teams[j].ID.String()
		}
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
}
