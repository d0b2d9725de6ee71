package duel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldiyarbek/quizduel/internal/question"
)

// memStore is an in-memory Store with the same conditional-update
// semantics as the SQL repository.
type memStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[uuid.UUID]*Session)}
}

func (m *memStore) InsertDuel(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) GetDuel(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) UpdateDuelStatus(_ context.Context, id uuid.UUID, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

func (m *memStore) SetPlayerResult(_ context.Context, id uuid.UUID, slot, score int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, nil
	}
	switch slot {
	case SlotPlayer1:
		if s.P1Status != PlayerPending {
			return false, nil
		}
		s.P1Score = &score
		s.P1Status = PlayerFinished
	case SlotPlayer2:
		if s.P2Status != PlayerPending {
			return false, nil
		}
		s.P2Score = &score
		s.P2Status = PlayerFinished
	}
	return true, nil
}

func (m *memStore) FinalizeDuel(_ context.Context, id uuid.UUID, winnerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Status != StatusActive {
		return false, nil
	}
	s.Status = StatusFinished
	s.WinnerID = winnerID
	return true, nil
}

func (m *memStore) ListIncomingDuels(_ context.Context, player2 uuid.UUID, createdAfter time.Time) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.sessions {
		if s.Player2ID == player2 && s.Status == StatusPending && s.CreatedAt.After(createdAfter) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// noopLocker serializes nothing; the memStore is already mutex-guarded.
type noopLocker struct{}

func (noopLocker) Lock(context.Context, uuid.UUID) (func() error, error) {
	return func() error { return nil }, nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewService(store, question.NewStubGenerator(42), noopLocker{}, ServiceOptions{}, zerolog.Nop())
	return svc, store
}

func createDuel(t *testing.T, svc *Service) (*Session, uuid.UUID, uuid.UUID) {
	t.Helper()
	p1 := uuid.New()
	p2 := uuid.New()
	session, err := svc.Create(context.Background(), p1, p2, "math", 5)
	require.NoError(t, err)
	return session, p1, p2
}

func TestCreateSnapshotsQuestions(t *testing.T) {
	svc, _ := newTestService(t)
	session, p1, p2 := createDuel(t, svc)

	assert.Equal(t, StatusPending, session.Status)
	assert.Equal(t, PlayerPending, session.P1Status)
	assert.Equal(t, PlayerPending, session.P2Status)
	assert.Len(t, session.Questions, 5)
	assert.Equal(t, p1, session.Player1ID)
	assert.Equal(t, p2, session.Player2ID)
	assert.Nil(t, session.P1Score)
	assert.Nil(t, session.P2Score)

	// Both players read the identical snapshot.
	reread, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Questions, reread.Questions)
}

func TestAcceptActivatesPendingDuel(t *testing.T) {
	svc, _ := newTestService(t)
	session, _, _ := createDuel(t, svc)

	require.NoError(t, svc.Accept(context.Background(), session.ID))

	got, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	// A second accept finds the duel no longer pending.
	assert.ErrorIs(t, svc.Accept(context.Background(), session.ID), ErrNotPending)
}

func TestRejectIsTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	session, _, _ := createDuel(t, svc)

	require.NoError(t, svc.Reject(context.Background(), session.ID))

	got, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)

	// Rejected duels can never be accepted afterwards.
	assert.ErrorIs(t, svc.Accept(context.Background(), session.ID), ErrNotPending)
}

func TestAcceptUnknownDuel(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Accept(context.Background(), uuid.New()), ErrNotFound)
}

func TestReportScoreIsWriteOnce(t *testing.T) {
	svc, _ := newTestService(t)
	session, p1, _ := createDuel(t, svc)
	require.NoError(t, svc.Accept(context.Background(), session.ID))

	got, err := svc.ReportScore(context.Background(), session.ID, p1, 30)
	require.NoError(t, err)
	require.NotNil(t, got.P1Score)
	assert.Equal(t, 30, *got.P1Score)
	assert.Equal(t, PlayerFinished, got.P1Status)

	// The duplicate report is refused and the stored score is untouched.
	_, err = svc.ReportScore(context.Background(), session.ID, p1, 90)
	assert.ErrorIs(t, err, ErrAlreadyReported)

	got, err = svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, *got.P1Score)
}

func TestFinalizeWinnerIndependentOfReportOrder(t *testing.T) {
	run := func(t *testing.T, firstP1 bool) *Session {
		svc, _ := newTestService(t)
		session, p1, p2 := createDuel(t, svc)
		require.NoError(t, svc.Accept(context.Background(), session.ID))

		if firstP1 {
			_, err := svc.ReportScore(context.Background(), session.ID, p1, 40)
			require.NoError(t, err)
			_, err = svc.ReportScore(context.Background(), session.ID, p2, 20)
			require.NoError(t, err)
		} else {
			_, err := svc.ReportScore(context.Background(), session.ID, p2, 20)
			require.NoError(t, err)
			_, err = svc.ReportScore(context.Background(), session.ID, p1, 40)
			require.NoError(t, err)
		}

		got, err := svc.Get(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, got.Status)
		assert.Equal(t, p1.String(), got.WinnerID)
		return got
	}

	run(t, true)
	run(t, false)
}

func TestEqualScoresAreADraw(t *testing.T) {
	svc, _ := newTestService(t)
	session, p1, p2 := createDuel(t, svc)
	require.NoError(t, svc.Accept(context.Background(), session.ID))

	_, err := svc.ReportScore(context.Background(), session.ID, p1, 50)
	require.NoError(t, err)
	got, err := svc.ReportScore(context.Background(), session.ID, p2, 50)
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, got.Status)
	assert.Equal(t, WinnerDraw, got.WinnerID)
}

func TestReportAfterFinishedIsRefused(t *testing.T) {
	svc, _ := newTestService(t)
	session, p1, p2 := createDuel(t, svc)
	require.NoError(t, svc.Accept(context.Background(), session.ID))

	_, err := svc.ReportScore(context.Background(), session.ID, p1, 10)
	require.NoError(t, err)
	_, err = svc.ReportScore(context.Background(), session.ID, p2, 20)
	require.NoError(t, err)

	_, err = svc.ReportScore(context.Background(), session.ID, p1, 99)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestReportScoreOnRejectedDuelIsRefused(t *testing.T) {
	svc, _ := newTestService(t)
	session, p1, _ := createDuel(t, svc)
	require.NoError(t, svc.Reject(context.Background(), session.ID))

	// Rejected is terminal: the record stays fully immutable.
	_, err := svc.ReportScore(context.Background(), session.ID, p1, 50)
	assert.ErrorIs(t, err, ErrFinished)

	got, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, got.P1Score)
	assert.Equal(t, PlayerPending, got.P1Status)
}

func TestReportScoreRejectsOutsiders(t *testing.T) {
	svc, _ := newTestService(t)
	session, _, _ := createDuel(t, svc)
	require.NoError(t, svc.Accept(context.Background(), session.ID))

	_, err := svc.ReportScore(context.Background(), session.ID, uuid.New(), 10)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestIncomingFiltersStaleInvites(t *testing.T) {
	svc, store := newTestService(t)
	_, _, p2 := createDuel(t, svc)

	// A second invite for the same recipient, created before the
	// freshness window opened.
	stale := &Session{
		ID:        uuid.New(),
		Player1ID: uuid.New(),
		Player2ID: p2,
		SubjectID: "math",
		P1Status:  PlayerPending,
		P2Status:  PlayerPending,
		Status:    StatusPending,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, store.InsertDuel(context.Background(), stale))

	incoming, err := svc.GetIncoming(context.Background(), p2)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.NotEqual(t, stale.ID, incoming[0].ID)

	// The stale invite is filtered, not deleted.
	kept, err := svc.Get(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, kept.Status)
}

func TestIncomingExcludesAcceptedDuels(t *testing.T) {
	svc, _ := newTestService(t)
	session, _, p2 := createDuel(t, svc)

	incoming, err := svc.GetIncoming(context.Background(), p2)
	require.NoError(t, err)
	require.Len(t, incoming, 1)

	require.NoError(t, svc.Accept(context.Background(), session.ID))

	incoming, err = svc.GetIncoming(context.Background(), p2)
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestComputeWinnerTreatsMissingScoreAsZero(t *testing.T) {
	score := 10
	s := &Session{
		Player1ID: uuid.New(),
		Player2ID: uuid.New(),
		P2Score:   &score,
	}
	assert.Equal(t, s.Player2ID.String(), computeWinner(s))

	s.P2Score = nil
	assert.Equal(t, WinnerDraw, computeWinner(s))
}
