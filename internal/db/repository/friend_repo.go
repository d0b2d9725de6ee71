package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aldiyarbek/quizduel/internal/friend"
)

// FriendRepo persists friend requests.
type FriendRepo struct {
	db DBTX
}

func NewFriendRepo(db DBTX) *FriendRepo {
	return &FriendRepo{db: db}
}

func (r *FriendRepo) InsertRequest(ctx context.Context, req *friend.Request) error {
	query := `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, status)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, req.ID, req.FromUserID, req.ToUserID, req.Status)
	if err != nil {
		return fmt.Errorf("insert friend request: %w", err)
	}
	return nil
}

func (r *FriendRepo) GetRequest(ctx context.Context, id uuid.UUID) (*friend.Request, error) {
	query := `SELECT id, from_user_id, to_user_id, status FROM friend_requests WHERE id = $1`

	var req friend.Request
	err := r.db.QueryRow(ctx, query, id).Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	return &req, nil
}

func (r *FriendRepo) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE friend_requests SET status = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, status); err != nil {
		return fmt.Errorf("update friend request status: %w", err)
	}
	return nil
}

func (r *FriendRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM friend_requests WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	return nil
}

func (r *FriendRepo) ListPendingRequests(ctx context.Context, toUserID uuid.UUID) ([]friend.Request, error) {
	query := `
		SELECT id, from_user_id, to_user_id, status
		FROM friend_requests
		WHERE to_user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, toUserID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()

	var reqs []friend.Request
	for rows.Next() {
		var req friend.Request
		if err := rows.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Status); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend requests: %w", err)
	}
	return reqs, nil
}
