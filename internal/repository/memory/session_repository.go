package memory

import (
	"time"

	"github.com/kanishkautag/munchy-mumbai/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps rolling conversation history in process memory.
// Sessions expire after an hour of inactivity; expired entries are purged
// every ten minutes.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
