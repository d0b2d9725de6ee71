package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	users map[uuid.UUID]*User
}

func newMemStore(users ...*User) *memStore {
	m := &memStore{users: make(map[uuid.UUID]*User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.EnrolledSubjects = append([]string(nil), u.EnrolledSubjects...)
	return &cp, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, user *User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func TestEnrollIsIdempotent(t *testing.T) {
	user := &User{ID: uuid.New(), Username: "alice"}
	store := newMemStore(user)
	svc := NewService(store, nil, zerolog.Nop())

	require.NoError(t, svc.Enroll(context.Background(), user.ID, "math"))
	require.NoError(t, svc.Enroll(context.Background(), user.ID, "math"))
	require.NoError(t, svc.Enroll(context.Background(), user.ID, "bio"))

	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"math", "bio"}, got.EnrolledSubjects)
}

func TestUnenrollRemovesSubject(t *testing.T) {
	user := &User{ID: uuid.New(), EnrolledSubjects: []string{"math", "bio", "geo"}}
	store := newMemStore(user)
	svc := NewService(store, nil, zerolog.Nop())

	require.NoError(t, svc.Unenroll(context.Background(), user.ID, "bio"))

	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"math", "geo"}, got.EnrolledSubjects)

	// Unenrolling again is harmless.
	require.NoError(t, svc.Unenroll(context.Background(), user.ID, "bio"))
}

func TestSearchMatchesUsernameAndFullName(t *testing.T) {
	self := &User{ID: uuid.New(), Username: "self"}
	store := newMemStore(
		self,
		&User{ID: uuid.New(), Username: "aldiyar", FullName: "Aldiyar B"},
		&User{ID: uuid.New(), Username: "bot42", FullName: "Dana Aldiyarova"},
		&User{ID: uuid.New(), Username: "carol", FullName: "Carol"},
	)
	svc := NewService(store, nil, zerolog.Nop())

	found, err := svc.Search(context.Background(), self.ID, "aldiyar")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestSearchExcludesSelf(t *testing.T) {
	self := &User{ID: uuid.New(), Username: "alice"}
	store := newMemStore(self)
	svc := NewService(store, nil, zerolog.Nop())

	found, err := svc.Search(context.Background(), self.ID, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestApplyQuizStatsAccumulates(t *testing.T) {
	user := &User{ID: uuid.New()}
	store := newMemStore(user)
	svc := NewService(store, nil, zerolog.Nop())

	require.NoError(t, svc.ApplyQuizStats(context.Background(), user.ID, 40, 5, 4))
	require.NoError(t, svc.ApplyQuizStats(context.Background(), user.ID, 20, 5, 2))

	got, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.TotalQuizzes)
	assert.Equal(t, 60, got.Stats.TotalScore)
	assert.Equal(t, 10, got.Stats.TotalQuestionsAnswered)
	assert.Equal(t, 6, got.Stats.TotalCorrect)
}

func TestEnrollmentsForUnknownUser(t *testing.T) {
	svc := NewService(newMemStore(), nil, zerolog.Nop())

	subjects, err := svc.Enrollments(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, subjects)
}
