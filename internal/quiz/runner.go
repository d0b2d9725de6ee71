package quiz

import (
	"time"

	"github.com/aldiyarbek/quizduel/internal/question"
	"github.com/aldiyarbek/quizduel/internal/subject"
)

// PointsPerQuestion is the flat award for a correct answer.
const PointsPerQuestion = 10

// Time-limit derivation constants, in seconds.
const (
	baseTimeSeconds       = 600
	easyPerQuestion       = 30
	mediumPerQuestion     = 60
	hardPerQuestion       = 90
	hardSubjectMultiplier = 1.5
)

// Completion is the event a finished run emits. The runner does not know
// whether it ran standalone or as one side of a duel; the caller routes
// this to the recorder or the duel manager.
type Completion struct {
	CorrectCount   int
	IncorrectCount int
	Score          int
	ElapsedSeconds int
}

// TimeLimitSeconds derives the countdown from question count and
// difficulty: a 600s base plus a per-question allowance that scales with
// difficulty, stretched 1.5x for the hard-subject set.
func TimeLimitSeconds(subjectID, difficulty string, count int) int {
	perQuestion := easyPerQuestion
	switch difficulty {
	case question.DifficultyMedium:
		perQuestion = mediumPerQuestion
	case question.DifficultyHard:
		perQuestion = hardPerQuestion
	}

	total := baseTimeSeconds + count*perQuestion
	if subject.IsHard(subjectID) {
		total = int(float64(total) * hardSubjectMultiplier)
	}
	return total
}

// Runner walks an ordered question sequence one at a time, accumulating
// score and correct count. It is driven by Select/Advance calls; timer
// expiry is the caller invoking Finish with whatever is selected.
type Runner struct {
	questions []question.Question
	subjectID string

	index    int
	selected string
	score    int
	correct  int
	done     bool

	startedAt time.Time
	now       func() time.Time
}

// NewRunner starts a run over the given snapshot. The slice must be
// non-empty; duel callers pass the session's materialized questions.
func NewRunner(subjectID string, questions []question.Question) *Runner {
	return &Runner{
		questions: questions,
		subjectID: subjectID,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// TimeLimitSeconds returns the countdown for this run, derived from the
// first question's difficulty.
func (r *Runner) TimeLimitSeconds() int {
	difficulty := question.DifficultyMedium
	if len(r.questions) > 0 {
		difficulty = r.questions[0].Difficulty
	}
	return TimeLimitSeconds(r.subjectID, difficulty, len(r.questions))
}

// Current returns the question under consideration.
func (r *Runner) Current() question.Question {
	return r.questions[r.index]
}

// Index returns the zero-based position of the current question.
func (r *Runner) Index() int {
	return r.index
}

// Done reports whether the run has completed.
func (r *Runner) Done() bool {
	return r.done
}

// Select records the user's current choice for the current question.
func (r *Runner) Select(option string) {
	if r.done {
		return
	}
	r.selected = option
}

// Advance scores the current selection and moves to the next question.
// On the last question it completes the run and returns the completion
// event; otherwise the second return is false.
func (r *Runner) Advance() (Completion, bool) {
	if r.done {
		return Completion{}, false
	}

	r.scoreSelection()

	if r.index < len(r.questions)-1 {
		r.index++
		r.selected = ""
		return Completion{}, false
	}
	return r.complete(), true
}

// Finish ends the run immediately, scoring whatever is currently selected
// for the current question. Timer expiry calls this, making it equivalent
// to the user pressing finish with the partial state.
func (r *Runner) Finish() Completion {
	if r.done {
		return r.completion()
	}
	r.scoreSelection()
	return r.complete()
}

func (r *Runner) scoreSelection() {
	if r.selected != "" && r.selected == r.questions[r.index].CorrectAnswer {
		r.score += PointsPerQuestion
		r.correct++
	}
}

func (r *Runner) complete() Completion {
	r.done = true
	return r.completion()
}

func (r *Runner) completion() Completion {
	return Completion{
		CorrectCount:   r.correct,
		IncorrectCount: len(r.questions) - r.correct,
		Score:          r.score,
		ElapsedSeconds: int(r.now().Sub(r.startedAt) / time.Second),
	}
}
