package auth

import (
	"fmt"
	"time"
)

// Token is a bearer credential and its lifetime.
type Token struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    time.Duration
	IssuedAt     time.Time
	RefreshToken string
}

// ExpiresAt is the first instant at which the token is no longer valid.
func (t Token) ExpiresAt() time.Time {
	return t.IssuedAt.Add(t.ExpiresIn)
}

// ValidAt reports whether the token can be used at now.
func (t Token) ValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt())
}

// IsValid reports whether the token can be used right now.
func (t Token) IsValid() bool {
	return t.ValidAt(time.Now())
}

// Authorization returns the Authorization header value, e.g. "Bearer BQD...".
func (t Token) Authorization() string {
	return t.TokenType + " " + t.AccessToken
}

// String hides the credentials so tokens can be logged safely.
func (t Token) String() string {
	return fmt.Sprintf("Token{type=%s, issued_at=%s, expires_in=%s}", t.TokenType, t.IssuedAt.Format(time.RFC3339), t.ExpiresIn)
}

// tokenResponse is the token endpoint JSON body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

func (r tokenResponse) token(issuedAt time.Time) Token {
	return Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		ExpiresIn:    time.Duration(r.ExpiresIn) * time.Second,
		IssuedAt:     issuedAt,
		RefreshToken: r.RefreshToken,
	}
}
