package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/auth"
	"github.com/aldiyarbek/quizduel/internal/config"
	"github.com/aldiyarbek/quizduel/internal/duel"
	"github.com/aldiyarbek/quizduel/internal/friend"
	"github.com/aldiyarbek/quizduel/internal/leaderboard"
	"github.com/aldiyarbek/quizduel/internal/logging"
	"github.com/aldiyarbek/quizduel/internal/notify"
	"github.com/aldiyarbek/quizduel/internal/profile"
	"github.com/aldiyarbek/quizduel/internal/quiz"
	"github.com/aldiyarbek/quizduel/internal/subject"
)

// Handlers collects the per-domain HTTP handlers the server mounts.
type Handlers struct {
	Auth     *auth.HTTPHandlers
	Profiles *profile.HTTPHandlers
	Subjects *subject.HTTPHandlers
	Friends  *friend.HTTPHandlers
	Duels    *duel.HTTPHandlers
	Quizzes  *quiz.HTTPHandlers
	Board    *leaderboard.HTTPHandlers
	Notify   *notify.Broadcaster
}

// NewHTTPServer wires all routes. The auth middleware decorates every
// request; RequireAuth gates the session-scoped routes.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client, authSvc *auth.Service, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, rdb); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Auth
	mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /v1/auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /v1/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("GET /v1/auth/oauth/google", h.Auth.OAuthStart)
	mux.HandleFunc("GET /v1/auth/oauth/google/callback", h.Auth.OAuthCallback)

	// Profiles and enrollment
	mux.Handle("GET /v1/users/me", protect(h.Profiles.Me))
	mux.Handle("PUT /v1/users/me", protect(h.Profiles.Update))
	mux.Handle("GET /v1/users/{id}", protect(h.Profiles.Get))
	mux.Handle("GET /v1/users", protect(h.Profiles.Search))
	mux.Handle("POST /v1/users/me/subjects", protect(h.Profiles.Enroll))
	mux.Handle("DELETE /v1/users/me/subjects/{subjectID}", protect(h.Profiles.Unenroll))

	// Subject catalog
	mux.HandleFunc("GET /v1/subjects", h.Subjects.List)
	mux.Handle("GET /v1/subjects/mutual/{userID}", protect(h.Subjects.MutualWith))

	// Friend graph
	mux.Handle("GET /v1/friends", protect(h.Friends.ListFriends))
	mux.Handle("POST /v1/friends/requests", protect(h.Friends.Send))
	mux.Handle("GET /v1/friends/requests", protect(h.Friends.ListPending))
	mux.Handle("POST /v1/friends/requests/{id}/accept", protect(h.Friends.Accept))
	mux.Handle("POST /v1/friends/requests/{id}/reject", protect(h.Friends.Reject))

	// Duels
	mux.Handle("POST /v1/duels", protect(h.Duels.Create))
	mux.Handle("GET /v1/duels/incoming", protect(h.Duels.Incoming))
	mux.Handle("GET /v1/duels/{id}", protect(h.Duels.Get))
	mux.Handle("POST /v1/duels/{id}/accept", protect(h.Duels.Accept))
	mux.Handle("POST /v1/duels/{id}/reject", protect(h.Duels.Reject))
	mux.Handle("POST /v1/duels/{id}/score", protect(h.Duels.ReportScore))

	// Quizzes and results
	mux.Handle("POST /v1/quizzes", protect(h.Quizzes.Start))
	mux.Handle("POST /v1/results", protect(h.Quizzes.SaveResult))
	mux.Handle("GET /v1/results", protect(h.Quizzes.History))

	// Leaderboard
	mux.Handle("GET /v1/leaderboard", protect(h.Board.Rankings))

	// Push notifications
	mux.Handle("GET /ws/notifications", h.Notify)

	var root http.Handler = mux
	root = auth.Middleware(authSvc, logger)(root)
	root = requestLogger(logger)(root)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: root,
	}
}

func protect(h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(h)
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.IntoContext(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	return rdb.Ping(ctx).Err()
}
