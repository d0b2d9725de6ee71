package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/auth/jwt"
	"github.com/aldiyarbek/quizduel/internal/profile"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// userStore is the account-facing slice of the user repository.
type userStore interface {
	InsertUser(ctx context.Context, user *profile.User, passwordHash string) error
	GetUser(ctx context.Context, id uuid.UUID) (*profile.User, error)
	GetUserByEmail(ctx context.Context, email string) (*profile.User, string, error)
}

// Service handles registration, login and token issuance.
type Service struct {
	users    userStore
	tokens   *jwt.Manager
	presence *profile.Presence
	logger   zerolog.Logger
}

func NewService(users userStore, tokens *jwt.Manager, presence *profile.Presence, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		presence: presence,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates an account and returns the signed-in token pair.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*profile.User, *TokenPair, error) {
	if req.Email == "" {
		return nil, nil, fmt.Errorf("email required")
	}

	existing, _, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &profile.User{
		ID:               uuid.New(),
		Email:            req.Email,
		FullName:         req.FullName,
		Username:         req.Username,
		EnrolledSubjects: []string{},
		Friends:          []uuid.UUID{},
	}
	if err := s.users.InsertUser(ctx, user, hash); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("email", req.Email).Msg("user registered")
	return user, tokens, nil
}

// Login authenticates with email/password and marks the user online.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*profile.User, *TokenPair, error) {
	user, hash, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || hash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(hash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.presence.Touch(ctx, user.ID)

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return user, tokens, nil
}

// Logout clears the user's presence marker. Tokens are stateless and
// simply expire.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	s.presence.Offline(ctx, userID)
	return nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("validate refresh token: %w", err)
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokenPair(user)
}

// ValidateToken checks an access token and returns its claims.
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	return s.tokens.ValidateToken(token)
}

func (s *Service) generateTokenPair(user *profile.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTLSeconds(),
	}, nil
}
