package leaderboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldiyarbek/quizduel/internal/profile"
)

type memUsers struct {
	users []profile.User
}

func (m *memUsers) ListUsers(_ context.Context) ([]profile.User, error) {
	return append([]profile.User(nil), m.users...), nil
}

func seedUsers() *memUsers {
	return &memUsers{users: []profile.User{
		{
			ID:       uuid.New(),
			Username: "alina",
			Stats:    profile.Stats{TotalScore: 120, TotalQuizzes: 3, TotalCorrect: 12},
		},
		{
			ID:       uuid.New(),
			Username: "bekzat",
			Stats:    profile.Stats{TotalScore: 200, TotalQuizzes: 2, TotalCorrect: 20},
		},
		{
			ID:       uuid.New(),
			Username: "camila",
			Stats:    profile.Stats{TotalScore: 120, TotalQuizzes: 8, TotalCorrect: 30},
		},
	}}
}

func TestRankingsByScoreIsDefault(t *testing.T) {
	svc := NewService(seedUsers(), ServiceOptions{}, zerolog.Nop())

	entries, err := svc.Rankings(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "bekzat", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	// Equal scores break the tie on username.
	assert.Equal(t, "alina", entries[1].Username)
	assert.Equal(t, "camila", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRankingsByQuizzes(t *testing.T) {
	svc := NewService(seedUsers(), ServiceOptions{}, zerolog.Nop())

	entries, err := svc.Rankings(context.Background(), SortQuizzes, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "camila", entries[0].Username)
	assert.Equal(t, 8, entries[0].TotalQuizzes)
	assert.Equal(t, "alina", entries[1].Username)
	assert.Equal(t, "bekzat", entries[2].Username)
}

func TestRankingsHonorsLimit(t *testing.T) {
	svc := NewService(seedUsers(), ServiceOptions{}, zerolog.Nop())

	entries, err := svc.Rankings(context.Background(), SortScore, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bekzat", entries[0].Username)
}

func TestRankingsCapsAtTopN(t *testing.T) {
	svc := NewService(seedUsers(), ServiceOptions{TopN: 2}, zerolog.Nop())

	entries, err := svc.Rankings(context.Background(), SortScore, 99)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRankingsRejectsUnknownSort(t *testing.T) {
	svc := NewService(seedUsers(), ServiceOptions{}, zerolog.Nop())

	_, err := svc.Rankings(context.Background(), "accuracy", 0)
	assert.ErrorIs(t, err, ErrUnknownSort)
}
