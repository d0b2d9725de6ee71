package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memResultStore struct {
	results []Result
}

func (m *memResultStore) InsertResult(_ context.Context, r *Result) error {
	m.results = append(m.results, *r)
	return nil
}

func (m *memResultStore) ListResultsByUser(_ context.Context, userID uuid.UUID) ([]Result, error) {
	var out []Result
	for _, r := range m.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type statsRecorder struct {
	calls int
	err   error
}

func (s *statsRecorder) ApplyQuizStats(_ context.Context, _ uuid.UUID, _, _, _ int) error {
	s.calls++
	return s.err
}

func TestRecordPersistsAndAppliesStats(t *testing.T) {
	store := &memResultStore{}
	stats := &statsRecorder{}
	rec := NewRecorder(store, stats, zerolog.Nop())

	userID := uuid.New()
	result := &Result{
		UserID:         userID,
		SubjectID:      "math",
		Score:          40,
		TotalQuestions: 5,
		CorrectCount:   4,
		IncorrectCount: 1,
	}
	require.NoError(t, rec.Record(context.Background(), result))

	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.False(t, result.CreatedAt.IsZero())
	assert.Equal(t, 1, stats.calls)

	history, err := rec.History(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 40, history[0].Score)
}

func TestRecordSurvivesStatsFailure(t *testing.T) {
	store := &memResultStore{}
	stats := &statsRecorder{err: errors.New("stats store down")}
	rec := NewRecorder(store, stats, zerolog.Nop())

	result := &Result{UserID: uuid.New(), SubjectID: "bio"}
	require.NoError(t, rec.Record(context.Background(), result))
	assert.Len(t, store.results, 1)
}

func TestHistoryScopedToUser(t *testing.T) {
	store := &memResultStore{}
	rec := NewRecorder(store, &statsRecorder{}, zerolog.Nop())

	alice := uuid.New()
	bob := uuid.New()
	require.NoError(t, rec.Record(context.Background(), &Result{UserID: alice}))
	require.NoError(t, rec.Record(context.Background(), &Result{UserID: bob}))

	history, err := rec.History(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
