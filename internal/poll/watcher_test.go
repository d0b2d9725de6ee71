package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldiyarbek/quizduel/internal/config"
	"github.com/aldiyarbek/quizduel/internal/duel"
	"github.com/aldiyarbek/quizduel/internal/friend"
	"github.com/aldiyarbek/quizduel/internal/profile"
)

type stubSource struct {
	mu       sync.Mutex
	session  *duel.Session
	failures int
	requests []friend.Request
	invites  []duel.Session
	user     *profile.User
}

func (s *stubSource) Get(_ context.Context, _ uuid.UUID) (*duel.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("transient store error")
	}
	cp := *s.session
	return &cp, nil
}

func (s *stubSource) GetIncoming(_ context.Context, _ uuid.UUID) ([]duel.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]duel.Session(nil), s.invites...), nil
}

func (s *stubSource) ListPending(_ context.Context, _ uuid.UUID) ([]friend.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]friend.Request(nil), s.requests...), nil
}

func (s *stubSource) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Status = status
}

type stubStats struct {
	mu   sync.Mutex
	user *profile.User
}

func (s *stubStats) Get(_ context.Context, _ uuid.UUID) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.user
	return &cp, nil
}

func fastPollConfig() config.Poll {
	return config.Poll{
		DuelInterval:    5 * time.Millisecond,
		InboxInterval:   5 * time.Millisecond,
		StatsInterval:   5 * time.Millisecond,
		InviteFreshness: time.Hour,
	}
}

func newStubSource() *stubSource {
	return &stubSource{
		session: &duel.Session{ID: uuid.New(), Status: duel.StatusPending},
	}
}

func collect(t *testing.T, events <-chan DuelEvent, want int) []DuelEvent {
	t.Helper()
	var out []DuelEvent
	timeout := time.After(2 * time.Second)
	for len(out) < want {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for %d events, got %d", want, len(out))
		}
	}
	return out
}

func TestWatchDuelEmitsOneEventPerStatusChange(t *testing.T) {
	src := newStubSource()
	w := NewWatcher(src, src, &stubStats{user: &profile.User{}}, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := w.WatchDuel(ctx, src.session.ID)

	// Still pending: the watcher stays quiet.
	select {
	case ev := <-events:
		t.Fatalf("unexpected event while pending: %+v", ev)
	case <-time.After(30 * time.Millisecond):
	}

	src.setStatus(duel.StatusActive)
	got := collect(t, events, 1)
	assert.Equal(t, EventDuelAccepted, got[0].Type)

	src.setStatus(duel.StatusFinished)
	got = collect(t, events, 1)
	assert.Equal(t, EventDuelFinished, got[0].Type)

	// Finished is terminal: the channel closes.
	_, open := <-events
	assert.False(t, open)
}

func TestWatchDuelRejectionIsTerminal(t *testing.T) {
	src := newStubSource()
	w := NewWatcher(src, src, &stubStats{user: &profile.User{}}, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := w.WatchDuel(ctx, src.session.ID)
	src.setStatus(duel.StatusRejected)

	got := collect(t, events, 1)
	assert.Equal(t, EventDuelRejected, got[0].Type)

	_, open := <-events
	assert.False(t, open)
}

func TestWatchDuelRetriesAfterErrors(t *testing.T) {
	src := newStubSource()
	src.failures = 3
	w := NewWatcher(src, src, &stubStats{user: &profile.User{}}, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := w.WatchDuel(ctx, src.session.ID)
	src.setStatus(duel.StatusActive)

	got := collect(t, events, 1)
	assert.Equal(t, EventDuelAccepted, got[0].Type)
}

func TestWatchDuelStopsOnCancel(t *testing.T) {
	src := newStubSource()
	w := NewWatcher(src, src, &stubStats{user: &profile.User{}}, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	events := w.WatchDuel(ctx, src.session.ID)
	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after cancel")
	}
}

func TestWatchInboxEmitsOnChangeOnly(t *testing.T) {
	src := newStubSource()
	w := NewWatcher(src, src, &stubStats{user: &profile.User{}}, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := w.WatchInbox(ctx, uuid.New())

	// The first read always emits the starting state.
	select {
	case snap := <-snapshots:
		assert.Empty(t, snap.FriendRequests)
		assert.Empty(t, snap.IncomingDuels)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	// Unchanged contents stay silent.
	select {
	case snap := <-snapshots:
		t.Fatalf("unexpected snapshot: %+v", snap)
	case <-time.After(30 * time.Millisecond):
	}

	src.mu.Lock()
	src.requests = []friend.Request{{ID: uuid.New(), Status: friend.StatusPending}}
	src.mu.Unlock()

	select {
	case snap := <-snapshots:
		require.Len(t, snap.FriendRequests, 1)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after change")
	}
}

func TestWatchInboxDetectsInviteAgingOut(t *testing.T) {
	src := newStubSource()
	src.invites = []duel.Session{{ID: uuid.New(), Status: duel.StatusPending}}
	w := NewWatcher(src, src, &stubStats{user: &profile.User{}}, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := w.WatchInbox(ctx, uuid.New())

	select {
	case snap := <-snapshots:
		require.Len(t, snap.IncomingDuels, 1)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	// The invite leaves the freshness window: removal is a change.
	src.mu.Lock()
	src.invites = nil
	src.mu.Unlock()

	select {
	case snap := <-snapshots:
		assert.Empty(t, snap.IncomingDuels)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after invite aged out")
	}
}

func TestWatchStatsEmitsOnGrowth(t *testing.T) {
	stats := &stubStats{user: &profile.User{}}
	src := newStubSource()
	w := NewWatcher(src, src, stats, fastPollConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := w.WatchStats(ctx, uuid.New())

	select {
	case st := <-updates:
		assert.Zero(t, st.TotalQuizzes)
	case <-time.After(time.Second):
		t.Fatal("no initial stats")
	}

	stats.mu.Lock()
	stats.user.Stats.TotalQuizzes = 1
	stats.user.Stats.TotalScore = 40
	stats.mu.Unlock()

	select {
	case st := <-updates:
		assert.Equal(t, 1, st.TotalQuizzes)
		assert.Equal(t, 40, st.TotalScore)
	case <-time.After(time.Second):
		t.Fatal("no stats after change")
	}
}
