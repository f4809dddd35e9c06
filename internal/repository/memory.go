package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type memorySession struct {
	session   entity.Session
	expiresAt time.Time
}

type memorySessions struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory, used when Redis is disabled.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessions{
		ttl:      ttl,
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (that *memorySessions) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *session
	stored.State = session.State.Clone()

	that.sessions[session.ID] = memorySession{session: stored, expiresAt: that.now().Add(that.ttl)}
	that.evictExpired()

	return nil
}

func (that *memorySessions) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stored, ok := that.sessions[id]
	if !ok || that.expired(stored) {
		return nil, apperror.ErrSessionNotFound
	}

	session := stored.session
	session.State = stored.session.State.Clone()

	return &session, nil
}

func (that *memorySessions) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

func (that *memorySessions) expired(stored memorySession) bool {
	return that.ttl > 0 && that.now().After(stored.expiresAt)
}

// evictExpired must be called with mu held for writing.
func (that *memorySessions) evictExpired() {
	for id, stored := range that.sessions {
		if that.expired(stored) {
			delete(that.sessions, id)
		}
	}
}
