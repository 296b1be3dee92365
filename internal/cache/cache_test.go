package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/aerial/internal/auth"
	"github.com/desertthunder/aerial/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func sampleToken() auth.Token {
	return auth.Token{
		AccessToken:  "BQD-access",
		TokenType:    "Bearer",
		ExpiresIn:    time.Hour,
		IssuedAt:     time.Date(2026, 10, 16, 12, 30, 45, 0, time.UTC),
		RefreshToken: "AQC-refresh",
	}
}

func TestCache(t *testing.T) {
	t.Run("Get Set Remove", func(t *testing.T) {
		c := New()
		if _, ok := c.Get(auth.Integration); ok {
			t.Error("expected empty cache")
		}
		if c.Dirty() {
			t.Error("new cache must not be dirty")
		}

		c.Set(auth.Integration, sampleToken())
		got, ok := c.Get(auth.Integration)
		if !ok {
			t.Fatal("expected entry after Set")
		}
		if diff := cmp.Diff(sampleToken(), got); diff != "" {
			t.Errorf("token mismatch (-want +got):\n%s", diff)
		}
		if !c.Dirty() {
			t.Error("expected cache to be dirty after Set")
		}

		if !c.Remove(auth.Integration) {
			t.Error("expected Remove to report an existing entry")
		}
		if c.Remove(auth.Integration) {
			t.Error("expected second Remove to report nothing removed")
		}
		if _, ok := c.Get(auth.Integration); ok {
			t.Error("expected entry to be gone")
		}
	})

	t.Run("Names", func(t *testing.T) {
		c := New()
		c.Set("spotify", sampleToken())
		c.Set("lastfm", sampleToken())

		if diff := cmp.Diff([]string{"lastfm", "spotify"}, c.Names()); diff != "" {
			t.Errorf("names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Record Round Trip", func(t *testing.T) {
		tok := sampleToken()
		if diff := cmp.Diff(tok, NewRecord(tok).Token()); diff != "" {
			t.Errorf("token mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFileStore(t *testing.T) {
	t.Run("Missing File Is Empty", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "cache.toml"), nil)

		c, err := s.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(c.Names()) != 0 {
			t.Errorf("expected empty cache, got %v", c.Names())
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "cache.toml")
		s := NewFileStore(path, nil)

		c := New()
		c.Set(auth.Integration, sampleToken())
		if err := s.Save(c); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected cache file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected 0600 permissions, got %o", perm)
		}

		loaded, err := s.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		got, ok := loaded.Get(auth.Integration)
		if !ok {
			t.Fatal("expected spotify entry after load")
		}
		if diff := cmp.Diff(sampleToken(), got); diff != "" {
			t.Errorf("token mismatch (-want +got):\n%s", diff)
		}
		if loaded.Dirty() {
			t.Error("freshly loaded cache must not be dirty")
		}
	})

	t.Run("Remove Persists", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "cache.toml"), nil)

		c := New()
		c.Set(auth.Integration, sampleToken())
		if err := s.Save(c); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		c.Remove(auth.Integration)
		if err := s.Save(c); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		loaded, err := s.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if _, ok := loaded.Get(auth.Integration); ok {
			t.Error("expected entry to stay removed")
		}
	})

	t.Run("Readable Format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.toml")
		content := `[spotify]
access_token = "A1"
token_type = "Bearer"
expires_in = 3600
issued_at = 2026-10-16T12:00:00Z
refresh_token = "R1"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write cache: %v", err)
		}

		c, err := NewFileStore(path, nil).Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		want := auth.Token{
			AccessToken:  "A1",
			TokenType:    "Bearer",
			ExpiresIn:    time.Hour,
			IssuedAt:     time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
			RefreshToken: "R1",
		}
		got, _ := c.Get(auth.Integration)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("token mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Corrupt File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.toml")
		if err := os.WriteFile(path, []byte("[spotify\naccess_token ="), 0600); err != nil {
			t.Fatalf("failed to write cache: %v", err)
		}

		if _, err := NewFileStore(path, nil).Load(); !errors.Is(err, shared.ErrCacheRead) {
			t.Errorf("expected ErrCacheRead, got %v", err)
		}
	})

	t.Run("Unwritable Directory", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, nil, 0600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		s := NewFileStore(filepath.Join(blocker, "cache.toml"), nil)
		if err := s.Save(New()); !errors.Is(err, shared.ErrCacheWrite) {
			t.Errorf("expected ErrCacheWrite, got %v", err)
		}
	})
}
