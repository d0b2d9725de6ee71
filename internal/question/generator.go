package question

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Provider produces question sets. Implementations must return exactly
// count questions, each with one correct option among shuffled distractors.
type Provider interface {
	Generate(ctx context.Context, subjectID, difficulty string, count int) ([]Question, error)
}

// StubGenerator is the pluggable placeholder content provider. Question
// text is synthetic; the option order is shuffled per question so clients
// cannot rely on position.
type StubGenerator struct {
	rng *rand.Rand
}

var _ Provider = (*StubGenerator)(nil)

// NewStubGenerator seeds the generator. A zero seed falls back to the clock.
func NewStubGenerator(seed int64) *StubGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &StubGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns count questions for the subject at the given difficulty.
func (g *StubGenerator) Generate(ctx context.Context, subjectID, difficulty string, count int) ([]Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		options := []string{"Correct Answer", "Wrong Option A", "Wrong Option B", "Wrong Option C"}
		g.rng.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})

		questions = append(questions, Question{
			ID:            fmt.Sprintf("%s_q_%d_%s", subjectID, i, uuid.NewString()),
			SubjectID:     subjectID,
			Difficulty:    difficulty,
			Text:          fmt.Sprintf("Sample Question %d for %s (%s)?", i+1, subjectID, difficulty),
			Options:       options,
			CorrectAnswer: "Correct Answer",
			Explanation:   "Generated question explanation.",
		})
	}
	return questions, nil
}
