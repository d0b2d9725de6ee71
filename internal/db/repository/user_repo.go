package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aldiyarbek/quizduel/internal/profile"
)

const userColumns = `id, email, full_name, username, avatar, enrolled_subjects, friends,
	total_quizzes, total_score, total_questions_answered, total_correct`

// UserRepo persists profile records. Not-found reads return (nil, nil);
// the services decide whether that is an error.
type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) InsertUser(ctx context.Context, user *profile.User, passwordHash string) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, username, avatar, enrolled_subjects, friends)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, passwordHash, user.FullName, user.Username,
		user.Avatar, user.EnrolledSubjects, user.Friends,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetUser(ctx context.Context, id uuid.UUID) (*profile.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetUserByEmail also returns the stored password hash for login checks.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*profile.User, string, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM profiles WHERE email = $1`

	var u profile.User
	var hash string
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.FullName, &u.Username, &u.Avatar,
		&u.EnrolledSubjects, &u.Friends,
		&u.Stats.TotalQuizzes, &u.Stats.TotalScore,
		&u.Stats.TotalQuestionsAnswered, &u.Stats.TotalCorrect,
		&hash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	return &u, hash, nil
}

func (r *UserRepo) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]profile.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListUsers returns all profiles; the profile service filters in memory.
func (r *UserRepo) ListUsers(ctx context.Context) ([]profile.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles ORDER BY username`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// UpdateUser rewrites the mutable profile fields as a whole record.
func (r *UserRepo) UpdateUser(ctx context.Context, user *profile.User) error {
	query := `
		UPDATE profiles
		SET full_name = $2, username = $3, avatar = $4,
			enrolled_subjects = $5, friends = $6,
			total_quizzes = $7, total_score = $8,
			total_questions_answered = $9, total_correct = $10,
			updated_at = now()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FullName, user.Username, user.Avatar,
		user.EnrolledSubjects, user.Friends,
		user.Stats.TotalQuizzes, user.Stats.TotalScore,
		user.Stats.TotalQuestionsAnswered, user.Stats.TotalCorrect,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*profile.User, error) {
	var u profile.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.Username, &u.Avatar,
		&u.EnrolledSubjects, &u.Friends,
		&u.Stats.TotalQuizzes, &u.Stats.TotalScore,
		&u.Stats.TotalQuestionsAnswered, &u.Stats.TotalCorrect,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]profile.User, error) {
	var users []profile.User
	for rows.Next() {
		var u profile.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.Username, &u.Avatar,
			&u.EnrolledSubjects, &u.Friends,
			&u.Stats.TotalQuizzes, &u.Stats.TotalScore,
			&u.Stats.TotalQuestionsAnswered, &u.Stats.TotalCorrect,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}
