package friend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/profile"
)

// requestStore is the narrow adapter for friend-request records.
type requestStore interface {
	InsertRequest(ctx context.Context, r *Request) error
	GetRequest(ctx context.Context, id uuid.UUID) (*Request, error)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	ListPendingRequests(ctx context.Context, toUserID uuid.UUID) ([]Request, error)
}

// userStore resolves and mutates the profiles a request accept touches.
type userStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*profile.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]profile.User, error)
	UpdateUser(ctx context.Context, user *profile.User) error
}

// Service maintains the friend graph: requests and the symmetric friend
// sets. Duels are only offered between friends, and incoming duels share
// the pending-request notification surface.
type Service struct {
	requests requestStore
	users    userStore
	logger   zerolog.Logger
}

func NewService(requests requestStore, users userStore, logger zerolog.Logger) *Service {
	return &Service{
		requests: requests,
		users:    users,
		logger:   logger.With().Str("component", "friend").Logger(),
	}
}

// SendRequest creates a pending request. Duplicate pending requests for
// the same pair are not deduplicated here.
func (s *Service) SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*Request, error) {
	req := &Request{
		ID:         uuid.New(),
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     StatusPending,
	}
	if err := s.requests.InsertRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("insert friend request: %w", err)
	}

	s.logger.Info().
		Str("from_user_id", fromID.String()).
		Str("to_user_id", toID.String()).
		Msg("friend request sent")
	return req, nil
}

// ListPending returns all pending requests addressed to the user.
func (s *Service) ListPending(ctx context.Context, userID uuid.UUID) ([]Request, error) {
	reqs, err := s.requests.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return reqs, nil
}

// Accept marks the request accepted and links both users symmetrically.
// The insert into each friend set is idempotent. A request that no longer
// exists is a silent no-op: the counterpart may have already resolved it.
func (s *Service) Accept(ctx context.Context, requestID uuid.UUID) error {
	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("get friend request: %w", err)
	}
	if req == nil {
		return nil
	}

	if err := s.requests.UpdateRequestStatus(ctx, requestID, StatusAccepted); err != nil {
		return fmt.Errorf("update request status: %w", err)
	}

	from, err := s.users.GetUser(ctx, req.FromUserID)
	if err != nil {
		return fmt.Errorf("get requester: %w", err)
	}
	to, err := s.users.GetUser(ctx, req.ToUserID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if from == nil || to == nil {
		return nil
	}

	if !from.HasFriend(to.ID) {
		from.Friends = append(from.Friends, to.ID)
		if err := s.users.UpdateUser(ctx, from); err != nil {
			return fmt.Errorf("update requester friends: %w", err)
		}
	}
	if !to.HasFriend(from.ID) {
		to.Friends = append(to.Friends, from.ID)
		if err := s.users.UpdateUser(ctx, to); err != nil {
			return fmt.Errorf("update recipient friends: %w", err)
		}
	}

	s.logger.Info().
		Str("request_id", requestID.String()).
		Str("from_user_id", req.FromUserID.String()).
		Str("to_user_id", req.ToUserID.String()).
		Msg("friend request accepted")
	return nil
}

// Reject deletes the request outright.
func (s *Service) Reject(ctx context.Context, requestID uuid.UUID) error {
	if err := s.requests.DeleteRequest(ctx, requestID); err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	return nil
}

// ListFriends resolves the user's friend-id set to full profiles.
func (s *Service) ListFriends(ctx context.Context, userID uuid.UUID) ([]profile.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || len(user.Friends) == 0 {
		return nil, nil
	}

	friends, err := s.users.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}
	return friends, nil
}
