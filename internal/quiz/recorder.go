package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result is one persisted quiz outcome, standalone or duel-sided.
type Result struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	SubjectID        string    `json:"subject_id"`
	Difficulty       string    `json:"difficulty"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	CorrectCount     int       `json:"correct_count"`
	IncorrectCount   int       `json:"incorrect_count"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	IsDuel           bool      `json:"is_duel"`
	OpponentName     string    `json:"opponent_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// resultStore is the narrow adapter for result rows.
type resultStore interface {
	InsertResult(ctx context.Context, r *Result) error
	ListResultsByUser(ctx context.Context, userID uuid.UUID) ([]Result, error)
}

// statsApplier folds a completed quiz into the user's aggregates
// (implemented by the profile service).
type statsApplier interface {
	ApplyQuizStats(ctx context.Context, userID uuid.UUID, score, totalQuestions, correct int) error
}

// Recorder persists completion events and keeps profile stats in step.
type Recorder struct {
	results resultStore
	stats   statsApplier
	logger  zerolog.Logger
}

func NewRecorder(results resultStore, stats statsApplier, logger zerolog.Logger) *Recorder {
	return &Recorder{
		results: results,
		stats:   stats,
		logger:  logger.With().Str("component", "quiz_recorder").Logger(),
	}
}

// Record saves the result and increments the user's stat counters. The
// result row is authoritative; a failed stat update is logged, not fatal,
// and the next stats poll will still show the stored result history.
func (r *Recorder) Record(ctx context.Context, result *Result) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	if err := r.results.InsertResult(ctx, result); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	if err := r.stats.ApplyQuizStats(ctx, result.UserID, result.Score, result.TotalQuestions, result.CorrectCount); err != nil {
		r.logger.Warn().Err(err).
			Str("user_id", result.UserID.String()).
			Msg("failed to apply quiz stats")
	}
	return nil
}

// History lists the user's results, newest first.
func (r *Recorder) History(ctx context.Context, userID uuid.UUID) ([]Result, error) {
	results, err := r.results.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}
