package handler

import (
	"sync"
	"time"

	"github.com/staffing-office/shift-board/backend/internal/board"
)

// 每个用户打开的每个月各自拥有一张排班表，显示顺序和导航状态互不干扰
type sessionKey struct {
	username string
	year     int
	month    time.Month
}

type boardSession struct {
	mu       sync.Mutex
	board    *board.Board
	lastUsed time.Time
}

func (s *boardSession) release() {
	s.mu.Unlock()
}

// sessionRegistry 保存已经加载的排班表，闲置超过 ttl 的会话会被丢弃，下次访问时重新加载
type sessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[sessionKey]*boardSession
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[sessionKey]*boardSession),
	}
}

// acquire 返回已经加锁的会话，用完后必须调用 release
// 会话还没有排班表时用 load 加载，加载失败时下一次访问会重试
func (reg *sessionRegistry) acquire(key sessionKey, load func(key sessionKey) (*board.Board, error)) (*boardSession, error) {
	reg.mu.Lock()
	now := reg.now()
	reg.evictExpired(now)
	s, exists := reg.sessions[key]
	if !exists {
		s = &boardSession{}
		reg.sessions[key] = s
	}
	s.lastUsed = now
	reg.mu.Unlock()

	s.mu.Lock()
	if s.board == nil {
		b, err := load(key)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.board = b
	}
	return s, nil
}

func (reg *sessionRegistry) drop(key sessionKey) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.sessions, key)
}

func (reg *sessionRegistry) size() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.sessions)
}

// 调用方必须持有 reg.mu
func (reg *sessionRegistry) evictExpired(now time.Time) {
	if reg.ttl <= 0 {
		return
	}
	for key, s := range reg.sessions {
		if now.Sub(s.lastUsed) > reg.ttl {
			delete(reg.sessions, key)
		}
	}
}
