package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookdash/internal/domain/listing"
)

// sweepEvery 每写入多少次顺带清理一次过期会话
const sweepEvery = 128

type sessionEntry struct {
	state   listing.ViewState
	expires time.Time
}

// SessionStore 进程内视图状态存储
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
	ttl     time.Duration
	writes  int
	now     func() time.Time
}

// NewSessionStore 创建进程内会话存储
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		entries: make(map[string]sessionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get 读取视图状态,过期即删除
func (s *SessionStore) Get(_ context.Context, sessionID string) (listing.ViewState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return listing.ViewState{}, false, nil
	}
	if s.expired(e) {
		delete(s.entries, sessionID)
		return listing.ViewState{}, false, nil
	}
	return e.state, true, nil
}

// Save 保存视图状态并续期
func (s *SessionStore) Save(_ context.Context, sessionID string, state listing.ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = sessionEntry{state: state, expires: s.now().Add(s.ttl)}

	s.writes++
	if s.writes%sweepEvery == 0 {
		for id, e := range s.entries {
			if s.expired(e) {
				delete(s.entries, id)
			}
		}
	}
	return nil
}

// Delete 删除会话
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Len 当前会话数(含未清理的过期会话)
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *SessionStore) expired(e sessionEntry) bool {
	return s.ttl > 0 && !s.now().Before(e.expires)
}
