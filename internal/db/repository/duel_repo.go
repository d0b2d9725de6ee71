package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aldiyarbek/quizduel/internal/duel"
)

const duelColumns = `id, player1_id, player2_id, subject_id, difficulty, question_count,
	questions, p1_score, p2_score, p1_status, p2_status, status, winner_id, created_at`

// DuelRepo persists duel sessions. The status and score updates are
// conditional: the WHERE clause carries the state-machine guard and the
// bool return reports whether the row matched.
type DuelRepo struct {
	db DBTX
}

func NewDuelRepo(db DBTX) *DuelRepo {
	return &DuelRepo{db: db}
}

func (r *DuelRepo) InsertDuel(ctx context.Context, s *duel.Session) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	query := `
		INSERT INTO duels (id, player1_id, player2_id, subject_id, difficulty, question_count,
			questions, p1_status, p2_status, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.Player1ID, s.Player2ID, s.SubjectID, s.Difficulty, s.QuestionCount,
		questions, s.P1Status, s.P2Status, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert duel: %w", err)
	}
	return nil
}

func (r *DuelRepo) GetDuel(ctx context.Context, id uuid.UUID) (*duel.Session, error) {
	query := `SELECT ` + duelColumns + ` FROM duels WHERE id = $1`
	return scanDuel(r.db.QueryRow(ctx, query, id))
}

func (r *DuelRepo) UpdateDuelStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	query := `UPDATE duels SET status = $3 WHERE id = $1 AND status = $2`
	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update duel status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetPlayerResult writes the slot's score and marks it finished only while
// the slot is still pending, making the write idempotent-safe.
func (r *DuelRepo) SetPlayerResult(ctx context.Context, id uuid.UUID, slot, score int) (bool, error) {
	var query string
	switch slot {
	case duel.SlotPlayer1:
		query = `UPDATE duels SET p1_score = $2, p1_status = 'finished' WHERE id = $1 AND p1_status = 'pending'`
	case duel.SlotPlayer2:
		query = `UPDATE duels SET p2_score = $2, p2_status = 'finished' WHERE id = $1 AND p2_status = 'pending'`
	default:
		return false, fmt.Errorf("invalid player slot %d", slot)
	}

	tag, err := r.db.Exec(ctx, query, id, score)
	if err != nil {
		return false, fmt.Errorf("set player result: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *DuelRepo) FinalizeDuel(ctx context.Context, id uuid.UUID, winnerID string) (bool, error) {
	query := `UPDATE duels SET status = 'finished', winner_id = $2 WHERE id = $1 AND status = 'active'`
	tag, err := r.db.Exec(ctx, query, id, winnerID)
	if err != nil {
		return false, fmt.Errorf("finalize duel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *DuelRepo) ListIncomingDuels(ctx context.Context, player2 uuid.UUID, createdAfter time.Time) ([]duel.Session, error) {
	query := `
		SELECT ` + duelColumns + `
		FROM duels
		WHERE player2_id = $1 AND status = 'pending' AND created_at > $2
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, player2, createdAfter)
	if err != nil {
		return nil, fmt.Errorf("list incoming duels: %w", err)
	}
	defer rows.Close()

	var sessions []duel.Session
	for rows.Next() {
		s, err := scanDuelRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duels: %w", err)
	}
	return sessions, nil
}

func scanDuel(row pgx.Row) (*duel.Session, error) {
	s, err := scanDuelRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanDuelRow(row pgx.Row) (*duel.Session, error) {
	var s duel.Session
	var questions []byte
	var winnerID *string
	err := row.Scan(
		&s.ID, &s.Player1ID, &s.Player2ID, &s.SubjectID, &s.Difficulty, &s.QuestionCount,
		&questions, &s.P1Score, &s.P2Score, &s.P1Status, &s.P2Status, &s.Status,
		&winnerID, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("scan duel: %w", err)
	}

	if winnerID != nil {
		s.WinnerID = *winnerID
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &s.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
	}
	return &s, nil
}
