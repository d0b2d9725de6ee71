package duel

import (
	"time"

	"github.com/google/uuid"

	"github.com/aldiyarbek/quizduel/internal/question"
)

// Session status lifecycle. The only legal transitions are
// pending -> active -> finished and pending -> rejected; rejected and
// finished are terminal.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
	StatusFinished = "finished"
)

// Per-player progress within a session.
const (
	PlayerPending  = "pending"
	PlayerFinished = "finished"
)

// WinnerDraw is the winner sentinel when both scores are equal.
const WinnerDraw = "draw"

// Player slots. Player 1 is always the challenger.
const (
	SlotPlayer1 = 1
	SlotPlayer2 = 2
)

// Session is the shared duel record. Questions are snapshotted at creation
// and never change afterwards, so both players answer the identical set.
type Session struct {
	ID            uuid.UUID           `json:"id"`
	Player1ID     uuid.UUID           `json:"player1_id"`
	Player2ID     uuid.UUID           `json:"player2_id"`
	SubjectID     string              `json:"subject_id"`
	Difficulty    string              `json:"difficulty"`
	QuestionCount int                 `json:"question_count"`
	Questions     []question.Question `json:"questions"`
	P1Score       *int                `json:"p1_score,omitempty"`
	P2Score       *int                `json:"p2_score,omitempty"`
	P1Status      string              `json:"p1_status"`
	P2Status      string              `json:"p2_status"`
	Status        string              `json:"status"`
	WinnerID      string              `json:"winner_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Slot returns which player slot the user occupies, or 0 for outsiders.
func (s *Session) Slot(userID uuid.UUID) int {
	switch userID {
	case s.Player1ID:
		return SlotPlayer1
	case s.Player2ID:
		return SlotPlayer2
	default:
		return 0
	}
}

// Terminal reports whether the session can no longer change.
func (s *Session) Terminal() bool {
	return s.Status == StatusRejected || s.Status == StatusFinished
}

// BothFinished reports whether both players have reported completion.
func (s *Session) BothFinished() bool {
	return s.P1Status == PlayerFinished && s.P2Status == PlayerFinished
}

// Opponent returns the other participant's id.
func (s *Session) Opponent(userID uuid.UUID) uuid.UUID {
	if userID == s.Player1ID {
		return s.Player2ID
	}
	return s.Player1ID
}
