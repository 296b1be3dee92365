// Package auth implements the Spotify authorization-code grant and the token lifecycle.
//
// # Tokens
//
// A [Token] is an immutable bearer credential. It is valid while now < IssuedAt + ExpiresIn; the
// boundary instant itself is expired. Refreshing never mutates a Token, it returns a new one.
//
// # Initial authorization
//
// [Flow.InitialAuth] builds the authorize URL, hands it to the browser, waits for the single redirect
// on localhost and exchanges the code at the token endpoint. Every failure is a [*StageError] naming
// the step that failed. A redirect without a code yields a [*CodeNotFoundError] carrying every query
// parameter that did arrive, which is usually enough to tell a denied consent from a misconfigured app.
//
// # Sessions
//
// [NewSession] never starts the browser flow on its own. With nothing cached it fails with
// shared.ErrNeedsInitialAuth; with an expired token it refreshes and writes the new token back to
// the cache before returning.
package auth
