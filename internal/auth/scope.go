package auth

import (
	"context"
	"sync"
)

type requestScopeKey struct{}

// requestScope memoizes resolver results within one request so that a handler
// touching the same (principal, establishment) pair several times issues the
// tenancy and membership queries once.
type requestScope struct {
	mu         sync.Mutex
	levels     map[string]AccessLevel
	membership map[string]bool
}

// WithRequestScope attaches a fresh memoization scope to the context. The
// HTTP middleware installs one per inbound request.
func WithRequestScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestScopeKey{}, &requestScope{
		levels:     make(map[string]AccessLevel),
		membership: make(map[string]bool),
	})
}

func scopeFrom(ctx context.Context) *requestScope {
	scope, _ := ctx.Value(requestScopeKey{}).(*requestScope)
	return scope
}

func (s *requestScope) level(key string) (AccessLevel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	level, ok := s.levels[key]
	return level, ok
}

func (s *requestScope) setLevel(key string, level AccessLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[key] = level
}

func (s *requestScope) member(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	linked, ok := s.membership[key]
	return linked, ok
}

func (s *requestScope) setMember(key string, linked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membership[key] = linked
}
