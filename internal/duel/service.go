package duel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/question"
)

// Sentinel errors for lifecycle invariant violations. Callers in the quiz
// flow treat ErrAlreadyReported and ErrFinished as ignorable (the redundant
// report must not corrupt the finalized record).
var (
	ErrNotFound        = errors.New("duel not found")
	ErrNotPending      = errors.New("duel is not pending")
	ErrNotParticipant  = errors.New("user is not a duel participant")
	ErrAlreadyReported = errors.New("score already reported")
	ErrFinished        = errors.New("duel already concluded")
)

// InviteFreshness is how long a pending invite is surfaced as incoming.
// Older invites stay in the store but disappear from the inbox.
const InviteFreshness = time.Hour

// Store is the narrow session-store adapter for duel records. Conditional
// updates return false when the guard did not match, which the service
// maps onto the invariant errors above.
type Store interface {
	InsertDuel(ctx context.Context, s *Session) error
	GetDuel(ctx context.Context, id uuid.UUID) (*Session, error)
	// UpdateDuelStatus transitions status from one value to another.
	UpdateDuelStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	// SetPlayerResult writes the slot's score and marks it finished, only
	// if the slot is still pending (write-once).
	SetPlayerResult(ctx context.Context, id uuid.UUID, slot, score int) (bool, error)
	// FinalizeDuel transitions active->finished and records the winner.
	FinalizeDuel(ctx context.Context, id uuid.UUID, winnerID string) (bool, error)
	// ListIncomingDuels returns pending sessions challenging the user,
	// created after the given cutoff.
	ListIncomingDuels(ctx context.Context, player2 uuid.UUID, createdAfter time.Time) ([]Session, error)
}

// ServiceOptions tunes the duel manager.
type ServiceOptions struct {
	// InviteFreshness overrides the default inbox window.
	InviteFreshness time.Duration
}

// Service owns the duel state machine: creation, the invite handshake,
// per-player completion, and one-time winner computation.
type Service struct {
	store     Store
	questions question.Provider
	locker    Locker
	freshness time.Duration
	logger    zerolog.Logger
}

func NewService(store Store, questions question.Provider, locker Locker, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.InviteFreshness <= 0 {
		opts.InviteFreshness = InviteFreshness
	}
	return &Service{
		store:     store,
		questions: questions,
		locker:    locker,
		freshness: opts.InviteFreshness,
		logger:    logger.With().Str("component", "duel").Logger(),
	}
}

// Create snapshots count questions for the subject at Medium difficulty and
// inserts a pending session. The caller (duel modal) has already checked
// that both players share the subject; the manager does not re-validate.
func (s *Service) Create(ctx context.Context, p1ID, p2ID uuid.UUID, subjectID string, count int) (*Session, error) {
	qs, err := s.questions.Generate(ctx, subjectID, question.DifficultyMedium, count)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	session := &Session{
		ID:            uuid.New(),
		Player1ID:     p1ID,
		Player2ID:     p2ID,
		SubjectID:     subjectID,
		Difficulty:    question.DifficultyMedium,
		QuestionCount: count,
		Questions:     qs,
		P1Status:      PlayerPending,
		P2Status:      PlayerPending,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.InsertDuel(ctx, session); err != nil {
		return nil, fmt.Errorf("insert duel: %w", err)
	}

	s.logger.Info().
		Str("duel_id", session.ID.String()).
		Str("player1_id", p1ID.String()).
		Str("player2_id", p2ID.String()).
		Str("subject_id", subjectID).
		Int("question_count", count).
		Msg("duel created")

	return session, nil
}

// Get fetches the current session snapshot.
func (s *Service) Get(ctx context.Context, duelID uuid.UUID) (*Session, error) {
	session, err := s.store.GetDuel(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("get duel: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}

// Accept moves a pending invite to active. Any other current status is
// ErrNotPending; a vanished duel is ErrNotFound.
func (s *Service) Accept(ctx context.Context, duelID uuid.UUID) error {
	return s.transition(ctx, duelID, StatusActive)
}

// Reject terminally declines a pending invite. The challenger cancelling
// their own outbound invite goes through the same transition; there is no
// separate cancel state.
func (s *Service) Reject(ctx context.Context, duelID uuid.UUID) error {
	return s.transition(ctx, duelID, StatusRejected)
}

func (s *Service) transition(ctx context.Context, duelID uuid.UUID, to string) error {
	ok, err := s.store.UpdateDuelStatus(ctx, duelID, StatusPending, to)
	if err != nil {
		return fmt.Errorf("update duel status: %w", err)
	}
	if !ok {
		session, err := s.store.GetDuel(ctx, duelID)
		if err != nil {
			return fmt.Errorf("get duel: %w", err)
		}
		if session == nil {
			return ErrNotFound
		}
		return ErrNotPending
	}

	s.logger.Info().Str("duel_id", duelID.String()).Str("status", to).Msg("duel transitioned")
	return nil
}

// ReportScore records the calling player's score, marks them finished, and
// finalizes the session once both sides have reported. Scores are
// write-once per player; finalization is idempotent and converges to the
// same winner no matter which player's report observes "both finished".
func (s *Service) ReportScore(ctx context.Context, duelID, userID uuid.UUID, score int) (*Session, error) {
	unlock, err := s.locker.Lock(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("acquire duel lock: %w", err)
	}
	defer unlock()

	session, err := s.store.GetDuel(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("get duel: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Terminal() {
		return nil, ErrFinished
	}

	slot := session.Slot(userID)
	if slot == 0 {
		return nil, ErrNotParticipant
	}

	ok, err := s.store.SetPlayerResult(ctx, duelID, slot, score)
	if err != nil {
		return nil, fmt.Errorf("set player result: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyReported
	}

	session, err = s.store.GetDuel(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("reload duel: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}

	if session.BothFinished() && session.Status != StatusFinished {
		winnerID := computeWinner(session)
		finalized, err := s.store.FinalizeDuel(ctx, duelID, winnerID)
		if err != nil {
			return nil, fmt.Errorf("finalize duel: %w", err)
		}
		if finalized {
			s.logger.Info().
				Str("duel_id", duelID.String()).
				Str("winner_id", winnerID).
				Msg("duel finalized")
		}
		session, err = s.store.GetDuel(ctx, duelID)
		if err != nil {
			return nil, fmt.Errorf("reload duel: %w", err)
		}
	}

	return session, nil
}

// GetIncoming returns pending invites challenging the user, created within
// the freshness window. Stale invites are filtered, not deleted.
func (s *Service) GetIncoming(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	cutoff := time.Now().Add(-s.freshness)
	sessions, err := s.store.ListIncomingDuels(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list incoming duels: %w", err)
	}
	return sessions, nil
}

// computeWinner picks the higher score; equal scores are a draw. Missing
// scores count as zero, matching an auto-finished empty run.
func computeWinner(s *Session) string {
	p1 := 0
	if s.P1Score != nil {
		p1 = *s.P1Score
	}
	p2 := 0
	if s.P2Score != nil {
		p2 = *s.P2Score
	}

	switch {
	case p1 > p2:
		return s.Player1ID.String()
	case p2 > p1:
		return s.Player2ID.String()
	default:
		return WinnerDraw
	}
}
