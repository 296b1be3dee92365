package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/aerial/internal/shared"
	tu "github.com/desertthunder/aerial/internal/testing"
)

type memCache map[string]Token

func (m memCache) Get(name string) (Token, bool) {
	tok, ok := m[name]
	return tok, ok
}

func (m memCache) Set(name string, tok Token) { m[name] = tok }

type stubRefresher struct {
	calls int
	tok   Token
	err   error
}

func (s *stubRefresher) Refresh(ctx context.Context, old Token) (Token, error) {
	s.calls++
	if s.err != nil {
		return Token{}, s.err
	}
	return s.tok, nil
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	valid := Token{AccessToken: "A1", TokenType: "Bearer", ExpiresIn: time.Hour, IssuedAt: now.Add(-time.Minute), RefreshToken: "R1"}
	expired := Token{AccessToken: "A0", TokenType: "Bearer", ExpiresIn: time.Hour, IssuedAt: now.Add(-time.Hour), RefreshToken: "R1"}
	clock := func() time.Time { return now }

	t.Run("Absent Needs Initial Auth", func(t *testing.T) {
		r := &stubRefresher{}

		_, err := NewSession(ctx, memCache{}, r, clock)
		if !errors.Is(err, shared.ErrNeedsInitialAuth) {
			t.Errorf("expected ErrNeedsInitialAuth, got %v", err)
		}
		if r.calls != 0 {
			t.Errorf("expected no refresh attempt, got %d", r.calls)
		}
	})

	t.Run("Absent Makes No Network Call", func(t *testing.T) {
		rt := tu.NewRecordingRoundTripper(nil, errors.New("network disabled"))
		f := NewFlow(FlowOpts{ClientID: "id", ClientSecret: "secret", HTTPClient: &http.Client{Transport: rt}})

		_, err := NewSession(ctx, memCache{}, f, clock)
		if !errors.Is(err, shared.ErrNeedsInitialAuth) {
			t.Errorf("expected ErrNeedsInitialAuth, got %v", err)
		}
		if rt.Calls() != 0 {
			t.Errorf("expected no requests, got %d", rt.Calls())
		}
	})

	t.Run("Valid Is Used As Is", func(t *testing.T) {
		r := &stubRefresher{}

		s, err := NewSession(ctx, memCache{Integration: valid}, r, clock)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		header, err := s.Authorization(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if header != "Bearer A1" {
			t.Errorf("expected 'Bearer A1', got %q", header)
		}
		if s.Refreshed() || r.calls != 0 {
			t.Error("expected no refresh for a valid token")
		}
	})

	t.Run("Expired Is Refreshed And Cached", func(t *testing.T) {
		fresh := Token{AccessToken: "A2", TokenType: "Bearer", ExpiresIn: time.Hour, IssuedAt: now, RefreshToken: "R1"}
		r := &stubRefresher{tok: fresh}
		c := memCache{Integration: expired}

		s, err := NewSession(ctx, c, r, clock)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !s.Refreshed() {
			t.Error("expected session to report a refresh")
		}
		if s.Token().AccessToken != "A2" {
			t.Errorf("expected refreshed token, got %s", s.Token().AccessToken)
		}
		if c[Integration].AccessToken != "A2" {
			t.Errorf("expected cache entry to be replaced, got %s", c[Integration].AccessToken)
		}
	})

	t.Run("Refresh Failure Leaves Cache Alone", func(t *testing.T) {
		r := &stubRefresher{err: fmt.Errorf("%w: revoked", shared.ErrRefreshRejected)}
		c := memCache{Integration: expired}

		_, err := NewSession(ctx, c, r, clock)
		if !errors.Is(err, shared.ErrRefreshRejected) {
			t.Errorf("expected ErrRefreshRejected, got %v", err)
		}
		if c[Integration].AccessToken != "A0" {
			t.Error("cache entry must not change on refresh failure")
		}
	})

	t.Run("Expiry During Session", func(t *testing.T) {
		current := now
		fresh := Token{AccessToken: "A2", TokenType: "Bearer", ExpiresIn: time.Hour, IssuedAt: now.Add(2 * time.Hour), RefreshToken: "R1"}
		r := &stubRefresher{tok: fresh}
		c := memCache{Integration: valid}

		s, err := NewSession(ctx, c, r, func() time.Time { return current })
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("Before Expiry", func(t *testing.T) {
			header, err := s.Authorization(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if header != "Bearer A1" || r.calls != 0 {
				t.Errorf("expected original token without refresh, got %q after %d refreshes", header, r.calls)
			}
		})

		current = now.Add(2 * time.Hour)

		t.Run("After Expiry", func(t *testing.T) {
			header, err := s.Authorization(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if header != "Bearer A2" {
				t.Errorf("expected 'Bearer A2', got %q", header)
			}
			if r.calls != 1 {
				t.Errorf("expected one refresh, got %d", r.calls)
			}
			if c[Integration].AccessToken != "A2" {
				t.Errorf("expected cache entry to be replaced, got %s", c[Integration].AccessToken)
			}
			if !s.Refreshed() {
				t.Error("expected session to report a refresh")
			}
		})

		t.Run("Refresh Failure", func(t *testing.T) {
			current = now.Add(4 * time.Hour)
			r.err = fmt.Errorf("%w: revoked", shared.ErrRefreshRejected)

			if _, err := s.Authorization(ctx); !errors.Is(err, shared.ErrRefreshRejected) {
				t.Errorf("expected ErrRefreshRejected, got %v", err)
			}
		})
	})

	t.Run("Status", func(t *testing.T) {
		if _, err := Status(memCache{}, now); !errors.Is(err, shared.ErrNeedsInitialAuth) {
			t.Errorf("expected ErrNeedsInitialAuth, got %v", err)
		}
		if _, err := Status(memCache{Integration: expired}, now); !errors.Is(err, shared.ErrNeedsRefresh) {
			t.Errorf("expected ErrNeedsRefresh, got %v", err)
		}
		if _, err := Status(memCache{Integration: valid}, now); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
