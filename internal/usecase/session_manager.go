package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

const (
	subscriberBuffer = 16
	saveTimeout      = 5 * time.Second
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type moveSuggester interface {
	Suggest(ctx context.Context, board entity.Board) int
}

type Options struct {
	DefaultMode    entity.Mode
	SuggestTimeout time.Duration
	IdleTimeout    time.Duration
}

// SessionManager owns one game controller per browser session. Every
// controller is only touched under its session lock, including the
// automated moves that are computed on worker goroutines.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	suggester   moveSuggester
	options     Options
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type session struct {
	mu               sync.Mutex
	id               string
	controller       *tictactoe.GameController
	cancelSuggestion context.CancelFunc
	subscribers      map[chan entity.Session]struct{}
	lastSeen         time.Time
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo, suggester moveSuggester, options Options) *SessionManager {
	if options.DefaultMode == "" {
		options.DefaultMode = entity.ModePvE
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		sessionRepo: sessionRepo,
		suggester:   suggester,
		options:     options,
		now:         time.Now,

		sessions: make(map[string]*session),

		ctx:    ctx,
		cancel: cancel,
	}
}

func (that *SessionManager) CreateSession(ctx context.Context) (*entity.Session, error) {
	s := &session{
		id:          uuid.NewString(),
		controller:  tictactoe.NewGameController(that.options.DefaultMode),
		subscribers: make(map[chan entity.Session]struct{}),
		lastSeen:    that.now(),
	}

	current := s.snapshot(that.now())
	if err := that.sessionRepo.CreateOrUpdate(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.mu.Lock()
	that.sessions[s.id] = s
	that.mu.Unlock()

	that.logger.Info("session created", "sessionID", s.id, "mode", that.options.DefaultMode)

	return current, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	s, err := that.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = that.now()

	return s.snapshot(that.now()), nil
}

// SelectCell applies a human move. A rejected move returns the unchanged
// session together with an error matching apperror.ErrIllegalMove.
func (that *SessionManager) SelectCell(ctx context.Context, id string, cell int) (*entity.Session, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		return controller.SelectCell(cell)
	})
}

func (that *SessionManager) ResetBoard(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		controller.Reset()
		return nil
	})
}

func (that *SessionManager) ToggleMode(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		controller.ToggleMode()
		return nil
	})
}

func (that *SessionManager) SetMode(ctx context.Context, id string, mode entity.Mode) (*entity.Session, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		return controller.SetMode(mode)
	})
}

func (that *SessionManager) ClearScore(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, func(controller *tictactoe.GameController) error {
		controller.ClearScore()
		return nil
	})
}

// Subscribe returns a channel receiving the session after every change.
// Updates are dropped for subscribers that fall behind.
func (that *SessionManager) Subscribe(ctx context.Context, id string) (<-chan entity.Session, func(), error) {
	s, err := that.loadSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	updates := make(chan entity.Session, subscriberBuffer)

	s.mu.Lock()
	s.subscribers[updates] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, updates)
			s.lastSeen = that.now()
			s.mu.Unlock()
		})
	}

	return updates, unsubscribe, nil
}

// Run evicts idle sessions from memory until ctx is done. The stored
// snapshot stays in the repository and is loaded again on the next request.
func (that *SessionManager) Run(ctx context.Context) {
	if that.options.IdleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(that.options.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.evictIdle()
		}
	}
}

// Shutdown abandons pending automated moves and waits for their workers.
func (that *SessionManager) Shutdown() {
	that.cancel()
	that.wg.Wait()
}

func (that *SessionManager) update(
	ctx context.Context, id string, action func(controller *tictactoe.GameController) error,
) (*entity.Session, error) {
	s, err := that.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = that.now()
	generation := s.controller.Generation()

	if err = action(s.controller); err != nil {
		return s.snapshot(that.now()), fmt.Errorf("session %s: %w", id, err)
	}

	if s.controller.Generation() != generation {
		s.abortSuggestion()
	}

	return that.commit(ctx, s)
}

// commit publishes the new state, starts the automated move if one is due
// and saves the snapshot. Must be called with s.mu held.
func (that *SessionManager) commit(ctx context.Context, s *session) (*entity.Session, error) {
	current := s.snapshot(that.now())

	s.publish(*current)
	that.scheduleSuggestion(s)

	if err := that.sessionRepo.CreateOrUpdate(ctx, current); err != nil {
		return current, fmt.Errorf("failed to save session: %w", err)
	}

	return current, nil
}

// scheduleSuggestion must be called with s.mu held.
func (that *SessionManager) scheduleSuggestion(s *session) {
	if s.controller.Phase() != entity.PhaseAwaitingAutomatedMove || s.cancelSuggestion != nil {
		return
	}

	if that.ctx.Err() != nil {
		return
	}

	ctx, cancel := that.suggestionContext()
	s.cancelSuggestion = cancel

	generation := s.controller.Generation()
	board := s.controller.Board()

	that.wg.Add(1)
	go func() {
		defer that.wg.Done()
		defer cancel()

		cell := that.suggester.Suggest(ctx, board)
		that.applySuggestion(s, generation, cell)
	}()
}

func (that *SessionManager) suggestionContext() (context.Context, context.CancelFunc) {
	if that.options.SuggestTimeout <= 0 {
		return context.WithCancel(that.ctx)
	}
	return context.WithTimeout(that.ctx, that.options.SuggestTimeout)
}

func (that *SessionManager) applySuggestion(s *session, generation uint64, cell int) {
	log := that.logger.With("method", "applySuggestion", "sessionID", s.id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.controller.Generation() != generation {
		log.Debug("dropping suggestion for a previous game", "cell", cell)
		return
	}

	s.cancelSuggestion = nil

	if s.controller.Phase() != entity.PhaseAwaitingAutomatedMove {
		log.Error("suggestion arrived outside the automated turn", "cell", cell, "phase", s.controller.Phase())
		return
	}

	if err := s.controller.ApplySuggestion(cell); err != nil {
		// the turn must not stall, so an unusable cell is replaced by a random one
		cells := s.controller.Board().EmptyCells()
		fallback := cells[rand.Intn(len(cells))] //nolint: gosec // it's ok
		log.Warn("suggested cell rejected, playing a random cell", "cell", cell, "fallback", fallback, "error", err)

		if err = s.controller.ApplySuggestion(fallback); err != nil {
			log.Error("failed to apply fallback cell", "cell", fallback, "error", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(that.ctx), saveTimeout)
	defer cancel()

	if _, err := that.commit(ctx, s); err != nil {
		log.Error("failed to commit automated move", "error", err)
	}
}

func (that *SessionManager) loadSession(ctx context.Context, id string) (*session, error) {
	that.mu.Lock()
	s, ok := that.sessions[id]
	that.mu.Unlock()

	if ok {
		return s, nil
	}

	stored, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if s, ok = that.sessions[id]; ok {
		return s, nil
	}

	s = &session{
		id:          id,
		controller:  tictactoe.RestoreGameController(stored.State),
		subscribers: make(map[chan entity.Session]struct{}),
		lastSeen:    that.now(),
	}
	that.sessions[id] = s

	// a move that was pending when the session left memory is requested again
	s.mu.Lock()
	that.scheduleSuggestion(s)
	s.mu.Unlock()

	return s, nil
}

func (that *SessionManager) evictIdle() {
	deadline := that.now().Add(-that.options.IdleTimeout)

	that.mu.Lock()
	defer that.mu.Unlock()

	for id, s := range that.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(deadline) && len(s.subscribers) == 0 && s.cancelSuggestion == nil
		s.mu.Unlock()

		if idle {
			delete(that.sessions, id)
			that.logger.Debug("session evicted from memory", "sessionID", id)
		}
	}
}

// snapshot must be called with mu held.
func (that *session) snapshot(now time.Time) *entity.Session {
	return &entity.Session{
		ID:        that.id,
		State:     that.controller.Snapshot(),
		UpdatedAt: now,
	}
}

// publish must be called with mu held.
func (that *session) publish(current entity.Session) {
	for updates := range that.subscribers {
		select {
		case updates <- current:
		default:
		}
	}
}

// abortSuggestion must be called with mu held.
func (that *session) abortSuggestion() {
	if that.cancelSuggestion != nil {
		that.cancelSuggestion()
		that.cancelSuggestion = nil
	}
}
