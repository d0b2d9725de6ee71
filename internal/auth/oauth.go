package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/aldiyarbek/quizduel/internal/profile"
)

const oauthStateTTL = 10 * time.Minute

// OAuthUserInfo contains user data from the OAuth provider.
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// OAuthService handles the Google sign-in flow. The CSRF state nonce is
// parked in Redis between the redirect and the callback.
type OAuthService struct {
	config     *oauth2.Config
	redis      *redis.Client
	authSvc    *Service
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewOAuthService(clientID, clientSecret, redirectURL string, rdb *redis.Client, authSvc *Service, logger zerolog.Logger) *OAuthService {
	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		redis:      rdb,
		authSvc:    authSvc,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With().Str("component", "oauth").Logger(),
	}
}

// Configured reports whether provider credentials are present.
func (s *OAuthService) Configured() bool {
	return s.config.ClientID != ""
}

// Start generates and parks a state nonce and returns the provider URL.
func (s *OAuthService) Start(ctx context.Context) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("oauth not configured")
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	if err := s.redis.Set(ctx, "oauth:state:"+state, "1", oauthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Callback verifies the state, exchanges the code, and signs the user in,
// creating the account on first sight of the email.
func (s *OAuthService) Callback(ctx context.Context, code, state string) (*profile.User, *TokenPair, error) {
	deleted, err := s.redis.Del(ctx, "oauth:state:"+state).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("verify state: %w", err)
	}
	if deleted == 0 {
		return nil, nil, fmt.Errorf("invalid oauth state")
	}

	info, err := s.exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if info.Email == "" {
		return nil, nil, fmt.Errorf("provider did not return email")
	}

	user, _, err := s.authSvc.users.GetUserByEmail(ctx, info.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		user = &profile.User{
			ID:               uuid.New(),
			Email:            info.Email,
			FullName:         info.Name,
			Username:         usernameFromEmail(info.Email),
			Avatar:           info.AvatarURL,
			EnrolledSubjects: []string{},
			Friends:          []uuid.UUID{},
		}
		if err := s.authSvc.users.InsertUser(ctx, user, ""); err != nil {
			return nil, nil, fmt.Errorf("create oauth user: %w", err)
		}
		s.logger.Info().Str("user_id", user.ID.String()).Msg("oauth user created")
	}

	tokens, err := s.authSvc.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return user, tokens, nil
}

func (s *OAuthService) exchange(ctx context.Context, code string) (*OAuthUserInfo, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("oauth token exchange failed")
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info API returned status %d", resp.StatusCode)
	}

	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &OAuthUserInfo{
		ProviderID: googleUser.ID,
		Email:      googleUser.Email,
		Name:       googleUser.Name,
		AvatarURL:  googleUser.Picture,
	}, nil
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
