package question

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReturnsRequestedCount(t *testing.T) {
	g := NewStubGenerator(1)

	questions, err := g.Generate(context.Background(), "math", DifficultyMedium, 7)
	require.NoError(t, err)
	require.Len(t, questions, 7)

	for _, q := range questions {
		assert.Equal(t, "math", q.SubjectID)
		assert.Equal(t, DifficultyMedium, q.Difficulty)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	g := NewStubGenerator(1)
	_, err := g.Generate(context.Background(), "math", DifficultyEasy, 0)
	assert.Error(t, err)
}

func TestGenerateHonorsCanceledContext(t *testing.T) {
	g := NewStubGenerator(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "math", DifficultyEasy, 3)
	assert.ErrorIs(t, err, context.Canceled)
}
