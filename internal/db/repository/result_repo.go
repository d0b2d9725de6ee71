package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aldiyarbek/quizduel/internal/quiz"
)

// ResultRepo persists quiz outcomes.
type ResultRepo struct {
	db DBTX
}

func NewResultRepo(db DBTX) *ResultRepo {
	return &ResultRepo{db: db}
}

func (r *ResultRepo) InsertResult(ctx context.Context, res *quiz.Result) error {
	query := `
		INSERT INTO results (id, user_id, subject_id, difficulty, score, total_questions,
			correct_count, incorrect_count, time_spent_seconds, is_duel, opponent_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		res.ID, res.UserID, res.SubjectID, res.Difficulty, res.Score, res.TotalQuestions,
		res.CorrectCount, res.IncorrectCount, res.TimeSpentSeconds, res.IsDuel,
		res.OpponentName, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepo) ListResultsByUser(ctx context.Context, userID uuid.UUID) ([]quiz.Result, error) {
	query := `
		SELECT id, user_id, subject_id, difficulty, score, total_questions,
			correct_count, incorrect_count, time_spent_seconds, is_duel, opponent_name, created_at
		FROM results
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []quiz.Result
	for rows.Next() {
		var res quiz.Result
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.SubjectID, &res.Difficulty, &res.Score,
			&res.TotalQuestions, &res.CorrectCount, &res.IncorrectCount,
			&res.TimeSpentSeconds, &res.IsDuel, &res.OpponentName, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
