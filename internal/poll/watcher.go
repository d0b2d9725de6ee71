package poll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/config"
	"github.com/aldiyarbek/quizduel/internal/duel"
	"github.com/aldiyarbek/quizduel/internal/friend"
	"github.com/aldiyarbek/quizduel/internal/profile"
)

// Duel event types emitted by WatchDuel.
const (
	EventDuelAccepted = "duel_accepted"
	EventDuelRejected = "duel_rejected"
	EventDuelFinished = "duel_finished"
)

// DuelEvent is one observed status change of a watched session.
type DuelEvent struct {
	Type    string        `json:"type"`
	Session *duel.Session `json:"session"`
}

// InboxSnapshot is the combined pending surface a user polls while idle:
// friend requests addressed to them plus fresh incoming duel invites.
type InboxSnapshot struct {
	FriendRequests []friend.Request `json:"friend_requests"`
	IncomingDuels  []duel.Session   `json:"incoming_duels"`
}

type duelSource interface {
	Get(ctx context.Context, duelID uuid.UUID) (*duel.Session, error)
	GetIncoming(ctx context.Context, userID uuid.UUID) ([]duel.Session, error)
}

type friendSource interface {
	ListPending(ctx context.Context, userID uuid.UUID) ([]friend.Request, error)
}

type statsSource interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.User, error)
}

// Watcher turns the pull-only store into change events by re-reading on a
// ticker and diffing against the last observed state. One event per
// change; read errors are logged and retried on the next tick.
type Watcher struct {
	duels   duelSource
	friends friendSource
	stats   statsSource
	cfg     config.Poll
	logger  zerolog.Logger
}

func NewWatcher(duels duelSource, friends friendSource, stats statsSource, cfg config.Poll, logger zerolog.Logger) *Watcher {
	return &Watcher{
		duels:   duels,
		friends: friends,
		stats:   stats,
		cfg:     cfg,
		logger:  logger.With().Str("component", "poll").Logger(),
	}
}

// WatchDuel observes one session until it reaches a terminal status or ctx
// is canceled. The channel receives exactly one event per status change
// and is closed when the watch ends. A pending duel emits nothing until
// the opponent acts; a finished duel emits the finished event and stops.
func (w *Watcher) WatchDuel(ctx context.Context, duelID uuid.UUID) <-chan DuelEvent {
	events := make(chan DuelEvent, 4)

	go func() {
		defer close(events)

		ticker := time.NewTicker(w.cfg.DuelInterval)
		defer ticker.Stop()

		lastStatus := ""
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			session, err := w.duels.Get(ctx, duelID)
			if err != nil {
				w.logger.Debug().Err(err).
					Str("duel_id", duelID.String()).
					Msg("duel poll failed, retrying next tick")
				continue
			}

			if session.Status == lastStatus {
				continue
			}
			lastStatus = session.Status

			event, terminal := classify(session)
			if event != "" {
				select {
				case events <- DuelEvent{Type: event, Session: session}:
				case <-ctx.Done():
					return
				}
			}
			if terminal {
				return
			}
		}
	}()

	return events
}

func classify(s *duel.Session) (event string, terminal bool) {
	switch s.Status {
	case duel.StatusActive:
		return EventDuelAccepted, false
	case duel.StatusRejected:
		return EventDuelRejected, true
	case duel.StatusFinished:
		return EventDuelFinished, true
	default:
		return "", false
	}
}

// WatchInbox re-reads the user's pending surface on the inbox interval and
// emits a snapshot whenever its contents change. The first read always
// emits, so subscribers start from a known state.
func (w *Watcher) WatchInbox(ctx context.Context, userID uuid.UUID) <-chan InboxSnapshot {
	snapshots := make(chan InboxSnapshot, 1)

	go func() {
		defer close(snapshots)

		ticker := time.NewTicker(w.cfg.InboxInterval)
		defer ticker.Stop()

		var last string
		emitted := false
		first := true
		for {
			if !first {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
			first = false

			snap, err := w.readInbox(ctx, userID)
			if err != nil {
				w.logger.Debug().Err(err).
					Str("user_id", userID.String()).
					Msg("inbox poll failed, retrying next tick")
				continue
			}

			// An empty inbox fingerprints to "", same as the zero value of
			// last, so change detection alone would swallow the first read.
			key := snap.fingerprint()
			if emitted && key == last {
				continue
			}
			last = key
			emitted = true

			select {
			case snapshots <- *snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots
}

func (w *Watcher) readInbox(ctx context.Context, userID uuid.UUID) (*InboxSnapshot, error) {
	reqs, err := w.friends.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	invites, err := w.duels.GetIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &InboxSnapshot{FriendRequests: reqs, IncomingDuels: invites}, nil
}

// fingerprint identifies the snapshot by its member ids. Invites age out
// of the freshness window between ticks, so removal is a change too.
func (s *InboxSnapshot) fingerprint() string {
	key := ""
	for _, r := range s.FriendRequests {
		key += "f:" + r.ID.String() + ";"
	}
	for _, d := range s.IncomingDuels {
		key += "d:" + d.ID.String() + ";"
	}
	return key
}

// WatchStats re-reads the user's aggregate stats on the slower stats
// interval and emits on change. Stats only grow, so a simple equality
// check suffices.
func (w *Watcher) WatchStats(ctx context.Context, userID uuid.UUID) <-chan profile.Stats {
	updates := make(chan profile.Stats, 1)

	go func() {
		defer close(updates)

		ticker := time.NewTicker(w.cfg.StatsInterval)
		defer ticker.Stop()

		var last *profile.Stats
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			user, err := w.stats.Get(ctx, userID)
			if err != nil {
				w.logger.Debug().Err(err).
					Str("user_id", userID.String()).
					Msg("stats poll failed, retrying next tick")
				continue
			}
			if user == nil {
				continue
			}

			if last != nil && *last == user.Stats {
				continue
			}
			stats := user.Stats
			last = &stats

			select {
			case updates <- stats:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates
}
