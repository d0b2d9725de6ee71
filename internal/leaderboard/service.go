package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/profile"
)

// Supported ranking orders.
const (
	SortScore   = "score"
	SortQuizzes = "quizzes"
)

// ErrUnknownSort rejects sort keys outside the supported set.
var ErrUnknownSort = fmt.Errorf("unknown leaderboard sort")

// Entry is one ranked row sent to clients.
type Entry struct {
	Rank         int       `json:"rank"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Avatar       string    `json:"avatar,omitempty"`
	TotalScore   int       `json:"total_score"`
	TotalQuizzes int       `json:"total_quizzes"`
	TotalCorrect int       `json:"total_correct"`
}

type userSource interface {
	ListUsers(ctx context.Context) ([]profile.User, error)
}

// ServiceOptions tunes ranking output.
type ServiceOptions struct {
	// TopN caps how many entries a single query may return.
	TopN int
}

// Service ranks all users by their lifetime quiz aggregates. Rankings are
// computed from the profile store on each read; the population is small
// enough that no materialized board is kept.
type Service struct {
	users  userSource
	topN   int
	logger zerolog.Logger
}

func NewService(users userSource, opts ServiceOptions, logger zerolog.Logger) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = 50
	}
	return &Service{
		users:  users,
		topN:   topN,
		logger: logger.With().Str("component", "leaderboard").Logger(),
	}
}

// Rankings returns users ordered by the chosen aggregate, best first. An
// empty sort key means SortScore. Ties break on username so the order is
// stable across reads.
func (s *Service) Rankings(ctx context.Context, sortKey string, limit int) ([]Entry, error) {
	if sortKey == "" {
		sortKey = SortScore
	}
	if sortKey != SortScore && sortKey != SortQuizzes {
		return nil, ErrUnknownSort
	}
	if limit <= 0 || limit > s.topN {
		limit = s.topN
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		switch sortKey {
		case SortQuizzes:
			if a.Stats.TotalQuizzes != b.Stats.TotalQuizzes {
				return a.Stats.TotalQuizzes > b.Stats.TotalQuizzes
			}
		default:
			if a.Stats.TotalScore != b.Stats.TotalScore {
				return a.Stats.TotalScore > b.Stats.TotalScore
			}
		}
		return a.Username < b.Username
	})

	if len(users) > limit {
		users = users[:limit]
	}

	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, Entry{
			Rank:         i + 1,
			UserID:       u.ID,
			Username:     u.Username,
			FullName:     u.FullName,
			Avatar:       u.Avatar,
			TotalScore:   u.Stats.TotalScore,
			TotalQuizzes: u.Stats.TotalQuizzes,
			TotalCorrect: u.Stats.TotalCorrect,
		})
	}
	return entries, nil
}
