package auth

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/aerial/internal/shared"
)

// Integration is the cache key the Spotify token is stored under.
const Integration = "spotify"

// TokenCache is the in-memory view of the persisted token records.
type TokenCache interface {
	Get(name string) (Token, bool)
	Set(name string, tok Token)
}

// Refresher exchanges an expired token for a new one.
type Refresher interface {
	Refresh(ctx context.Context, old Token) (Token, error)
}

// Session is an authenticated client context. It keeps the cached token valid for its whole
// lifetime, refreshing it on demand when a request finds it expired.
type Session struct {
	mu        sync.Mutex
	cache     TokenCache
	refresher Refresher
	now       func() time.Time
	token     Token
	refreshed bool
}

// NewSession resolves the cached Spotify token.
//
// An absent entry fails with shared.ErrNeedsInitialAuth before any network call. An expired entry
// is refreshed and the new token replaces the cache entry; refresh failures are returned as is,
// so shared.ErrRefreshRejected still tells the caller to authenticate again.
func NewSession(ctx context.Context, c TokenCache, r Refresher, now func() time.Time) (*Session, error) {
	tok, ok := c.Get(Integration)
	if !ok {
		return nil, shared.ErrNeedsInitialAuth
	}

	s := &Session{cache: c, refresher: r, now: now, token: tok}
	if err := s.ensureValid(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureValid refreshes the token when it has expired. Callers hold s.mu or own s exclusively.
func (s *Session) ensureValid(ctx context.Context) error {
	if s.token.ValidAt(s.now()) {
		return nil
	}

	fresh, err := s.refresher.Refresh(ctx, s.token)
	if err != nil {
		return err
	}

	s.cache.Set(Integration, fresh)
	s.token = fresh
	s.refreshed = true
	return nil
}

// Authorization returns the header value for a token valid now, refreshing first if needed.
func (s *Session) Authorization(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureValid(ctx); err != nil {
		return "", err
	}
	return s.token.Authorization(), nil
}

// Token returns the session token.
func (s *Session) Token() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Refreshed reports whether the session has refreshed the token since it was built.
func (s *Session) Refreshed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}

// Status classifies the cached token without touching the network: nil when valid,
// shared.ErrNeedsInitialAuth when absent, shared.ErrNeedsRefresh when expired.
func Status(c TokenCache, now time.Time) (Token, error) {
	tok, ok := c.Get(Integration)
	if !ok {
		return Token{}, shared.ErrNeedsInitialAuth
	}
	if !tok.ValidAt(now) {
		return tok, shared.ErrNeedsRefresh
	}
	return tok, nil
}
