package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/aerial/internal/cache"
	"github.com/desertthunder/aerial/internal/shared"
)

var _ cache.Store = (*TokenRepository)(nil)

const upsertToken = `
	INSERT INTO tokens (id, integration, access_token, token_type, expires_in, issued_at, refresh_token, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(integration) DO UPDATE SET
		access_token = excluded.access_token,
		token_type = excluded.token_type,
		expires_in = excluded.expires_in,
		issued_at = excluded.issued_at,
		refresh_token = excluded.refresh_token,
		updated_at = excluded.updated_at
`

// TokenRepository persists token records keyed by integration name.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Load reads every row into a [cache.Cache].
func (r *TokenRepository) Load() (*cache.Cache, error) {
	rows, err := r.db.Query(`
		SELECT integration, access_token, token_type, expires_in, issued_at, refresh_token
		FROM tokens
		ORDER BY integration
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCacheRead, err)
	}
	defer rows.Close()

	records := make(map[string]cache.Record)
	for rows.Next() {
		var (
			name string
			rec  cache.Record
		)
		if err := rows.Scan(&name, &rec.AccessToken, &rec.TokenType, &rec.ExpiresIn, &rec.IssuedAt, &rec.RefreshToken); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCacheRead, err)
		}
		records[name] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCacheRead, err)
	}

	return cache.FromRecords(records), nil
}

// Save makes the table match c in a single transaction.
func (r *TokenRepository) Save(c *cache.Cache) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tokens`); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}

	updated := time.Now().UTC()
	for name, rec := range c.Records() {
		_, err := tx.Exec(upsertToken, shared.GenerateID(), name, rec.AccessToken, rec.TokenType, rec.ExpiresIn, rec.IssuedAt.UTC(), rec.RefreshToken, updated)
		if err != nil {
			return fmt.Errorf("%w: failed to upsert %s: %v", shared.ErrCacheWrite, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheWrite, err)
	}
	return nil
}
