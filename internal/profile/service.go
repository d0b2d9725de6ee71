package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the narrow adapter the profile service needs from the durable
// store. Updates replace the whole record; per-field patching is not part
// of the contract.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// Service owns profile reads, edits, enrollment, and stat accumulation.
type Service struct {
	store    Store
	presence *Presence
	logger   zerolog.Logger
}

func NewService(store Store, presence *Presence, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		presence: presence,
		logger:   logger.With().Str("component", "profile").Logger(),
	}
}

// Get fetches one user. A nil user with nil error means not found.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user != nil && s.presence != nil {
		user.IsOnline = s.presence.IsOnline(ctx, user.ID)
	}
	return user, nil
}

// Search returns users whose username or full name contains the term,
// excluding the searching user. An empty term matches everyone.
func (s *Service) Search(ctx context.Context, selfID uuid.UUID, term string) ([]User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	term = strings.ToLower(term)
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.ID == selfID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Username), term) &&
			!strings.Contains(strings.ToLower(u.FullName), term) {
			continue
		}
		if s.presence != nil {
			u.IsOnline = s.presence.IsOnline(ctx, u.ID)
		}
		out = append(out, u)
	}
	return out, nil
}

// Update writes the edited record. Callers apply the edit to their local
// copy first and issue the write; an error here means the local copy is
// ahead of the store and should be re-read.
func (s *Service) Update(ctx context.Context, user *User) error {
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Enroll adds the subject to the user's set. Already enrolled is a no-op.
func (s *Service) Enroll(ctx context.Context, userID uuid.UUID, subjectID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.Enrolled(subjectID) {
		return nil
	}
	user.EnrolledSubjects = append(user.EnrolledSubjects, subjectID)
	return s.store.UpdateUser(ctx, user)
}

// Unenroll removes the subject from the user's set.
func (s *Service) Unenroll(ctx context.Context, userID uuid.UUID, subjectID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil
	}

	kept := user.EnrolledSubjects[:0]
	for _, id := range user.EnrolledSubjects {
		if id != subjectID {
			kept = append(kept, id)
		}
	}
	user.EnrolledSubjects = kept
	return s.store.UpdateUser(ctx, user)
}

// Enrollments returns the user's enrolled subject ids. Unknown users get
// an empty set.
func (s *Service) Enrollments(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	return user.EnrolledSubjects, nil
}

// ApplyQuizStats folds one completed quiz into the user's aggregates.
func (s *Service) ApplyQuizStats(ctx context.Context, userID uuid.UUID, score, totalQuestions, correct int) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil
	}

	user.Stats.TotalQuizzes++
	user.Stats.TotalScore += score
	user.Stats.TotalQuestionsAnswered += totalQuestions
	user.Stats.TotalCorrect += correct

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update stats: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Int("score", score).
		Int("correct", correct).
		Msg("quiz stats applied")
	return nil
}
