// Package cache holds the persisted token records for a single command run.
//
// A [Cache] is loaded once from a [Store] when a command starts and saved once when it succeeds.
// Nothing locks the backing file or database against other processes: when two invocations run
// at the same time the last one to save wins.
package cache

import (
	"maps"
	"slices"
	"time"

	"github.com/desertthunder/aerial/internal/auth"
)

// Store loads and saves a whole [Cache].
type Store interface {
	Load() (*Cache, error)
	Save(c *Cache) error
}

// Cache maps integration names to their token. The zero value is not usable, see [New].
type Cache struct {
	tokens map[string]auth.Token
	dirty  bool
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{tokens: make(map[string]auth.Token)}
}

func (c *Cache) Get(name string) (auth.Token, bool) {
	tok, ok := c.tokens[name]
	return tok, ok
}

func (c *Cache) Set(name string, tok auth.Token) {
	c.tokens[name] = tok
	c.dirty = true
}

// Remove deletes the entry for name and reports whether there was one.
func (c *Cache) Remove(name string) bool {
	if _, ok := c.tokens[name]; !ok {
		return false
	}
	delete(c.tokens, name)
	c.dirty = true
	return true
}

// Names returns the cached integration names in sorted order.
func (c *Cache) Names() []string {
	return slices.Sorted(maps.Keys(c.tokens))
}

// Dirty reports whether the cache changed since it was loaded.
func (c *Cache) Dirty() bool {
	return c.dirty
}

// Record is the persisted form of a token. ExpiresIn is in seconds.
type Record struct {
	AccessToken  string    `toml:"access_token"`
	TokenType    string    `toml:"token_type"`
	ExpiresIn    int64     `toml:"expires_in"`
	IssuedAt     time.Time `toml:"issued_at"`
	RefreshToken string    `toml:"refresh_token"`
}

// NewRecord converts a token for storage.
func NewRecord(tok auth.Token) Record {
	return Record{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    int64(tok.ExpiresIn / time.Second),
		IssuedAt:     tok.IssuedAt.UTC(),
		RefreshToken: tok.RefreshToken,
	}
}

// Token converts a stored record back into a token.
func (r Record) Token() auth.Token {
	return auth.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		ExpiresIn:    time.Duration(r.ExpiresIn) * time.Second,
		IssuedAt:     r.IssuedAt,
		RefreshToken: r.RefreshToken,
	}
}

// FromRecords builds a clean cache from stored records.
func FromRecords(records map[string]Record) *Cache {
	c := New()
	for name, r := range records {
		c.tokens[name] = r.Token()
	}
	return c
}

// Records returns the storable form of every entry.
func (c *Cache) Records() map[string]Record {
	records := make(map[string]Record, len(c.tokens))
	for name, tok := range c.tokens {
		records[name] = NewRecord(tok)
	}
	return records
}
