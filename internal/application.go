package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-ai/internal/config"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-ai/internal/service"
	"github.com/rocketscienceinc/tictactoe-ai/internal/transport/gemini"
	"github.com/rocketscienceinc/tictactoe-ai/internal/transport/mistral"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-ai/transport/rest"
	"github.com/rocketscienceinc/tictactoe-ai/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	defaultMode, err := entity.ParseMode(conf.DefaultMode)
	if err != nil {
		return fmt.Errorf("invalid default mode: %w", err)
	}

	sessionRepo, closeRepo, err := newSessionRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	advisor, err := newAdvisor(ctx, log, conf.Suggester)
	if err != nil {
		return fmt.Errorf("could not create move advisor: %w", err)
	}

	log.Info("Move suggester ready", "backend", conf.Suggester.Backend, "thinkDelay", conf.Suggester.ThinkDelay)

	suggester := service.NewMoveSuggester(logger, advisor, conf.Suggester.ThinkDelay)
	sessionManager := usecase.NewSessionManager(logger, sessionRepo, suggester, usecase.Options{
		DefaultMode:    defaultMode,
		SuggestTimeout: conf.Suggester.Timeout,
		IdleTimeout:    conf.IdleTimeout,
	})
	defer sessionManager.Shutdown()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		sessionManager.Run(groupCtx)
		return nil
	})

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, sessionManager, conf.OpponentName)
		if httpErr := rest.Start(groupCtx, conf.HTTPPort, rest.NewRouter(handlers)); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, sessionManager, conf.OpponentName)
		if wsErr := wsServer.Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newSessionRepository picks Redis when it is enabled and memory otherwise.
func newSessionRepository(
	ctx context.Context, log *slog.Logger, conf *config.Config,
) (repository.SessionRepository, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Keeping sessions in memory")
		return repository.NewMemorySessionRepository(conf.SessionTTL), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Keeping sessions in redis", "addr", redisAddrString)

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewSessionRepository(redisStorage, conf.SessionTTL), closeStorage, nil
}

type moveAdvisor interface {
	Advise(ctx context.Context, board entity.Board) (*entity.Advice, error)
}

// newAdvisor builds the configured backend. A model backend without an API
// key degrades to random moves instead of failing the start.
func newAdvisor(ctx context.Context, log *slog.Logger, conf config.Suggester) (moveAdvisor, error) {
	if conf.APIKey == "" && (conf.Backend == config.BackendGemini || conf.Backend == config.BackendMistral) {
		log.Warn("No API key configured, the opponent plays random moves", "backend", conf.Backend)
		return service.NewRandomAdvisor(), nil
	}

	switch conf.Backend {
	case config.BackendGemini:
		return gemini.New(ctx, conf.APIKey, conf.Model)
	case config.BackendMistral:
		return mistral.New(conf.APIKey, conf.Model)
	case config.BackendRandom:
		return service.NewRandomAdvisor(), nil
	default:
		return nil, fmt.Errorf("unknown suggester backend %q", conf.Backend)
	}
}
