// Package repositories implements SQLite persistence for the token cache.
//
// [TokenRepository] stores zero or one row per integration in the tokens table created by the
// embedded migrations in internal/shared, and satisfies cache.Store so it can replace the TOML
// file when cache.backend is "sqlite".
package repositories
