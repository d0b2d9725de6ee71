package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/auth"
	"github.com/aldiyarbek/quizduel/internal/auth/jwt"
	"github.com/aldiyarbek/quizduel/internal/config"
	"github.com/aldiyarbek/quizduel/internal/db/repository"
	"github.com/aldiyarbek/quizduel/internal/duel"
	"github.com/aldiyarbek/quizduel/internal/friend"
	"github.com/aldiyarbek/quizduel/internal/leaderboard"
	"github.com/aldiyarbek/quizduel/internal/logging"
	"github.com/aldiyarbek/quizduel/internal/notify"
	"github.com/aldiyarbek/quizduel/internal/poll"
	"github.com/aldiyarbek/quizduel/internal/profile"
	"github.com/aldiyarbek/quizduel/internal/question"
	"github.com/aldiyarbek/quizduel/internal/quiz"
	"github.com/aldiyarbek/quizduel/internal/server"
	"github.com/aldiyarbek/quizduel/internal/subject"
	"github.com/aldiyarbek/quizduel/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis, the domain services and
// the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be configured")
	}

	userRepo := repository.NewUserRepo(pool)
	friendRepo := repository.NewFriendRepo(pool)
	duelRepo := repository.NewDuelRepo(pool)
	resultRepo := repository.NewResultRepo(pool)

	presence := profile.NewPresence(redisClient, logger)
	profileSvc := profile.NewService(userRepo, presence, logger)

	tokenMgr := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		Issuer: cfg.Name,
	})
	authSvc := auth.NewService(userRepo, tokenMgr, presence, logger)
	oauthSvc := auth.NewOAuthService(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
		redisClient,
		authSvc,
		logger,
	)
	if !oauthSvc.Configured() {
		logger.Warn().Msg("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID)")
	}

	questionCache := question.NewCache(redisClient, 0)
	questions := question.NewCachedProvider(question.NewStubGenerator(0), questionCache, logger)

	locker := duel.NewRedisLocker(redisClient, logger)
	duelSvc := duel.NewService(duelRepo, questions, locker, duel.ServiceOptions{
		InviteFreshness: cfg.Poll.InviteFreshness,
	}, logger)
	friendSvc := friend.NewService(friendRepo, userRepo, logger)
	recorder := quiz.NewRecorder(resultRepo, profileSvc, logger)
	leaderboardSvc := leaderboard.NewService(userRepo, leaderboard.ServiceOptions{}, logger)

	watcher := poll.NewWatcher(duelSvc, friendSvc, profileSvc, cfg.Poll, logger)
	hub := ws.NewHub(logger)
	broadcaster := notify.NewBroadcaster(hub, watcher, logger)

	handlers := server.Handlers{
		Auth:     auth.NewHTTPHandlers(authSvc, oauthSvc, logger),
		Profiles: profile.NewHTTPHandlers(profileSvc, presence, logger),
		Subjects: subject.NewHTTPHandlers(profileSvc, logger),
		Friends:  friend.NewHTTPHandlers(friendSvc, logger),
		Duels:    duel.NewHTTPHandlers(duelSvc, profileSvc, logger),
		Quizzes:  quiz.NewHTTPHandlers(questions, recorder, logger),
		Board:    leaderboard.NewHTTPHandlers(leaderboardSvc, logger),
		Notify:   broadcaster,
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, authSvc, handlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
