package shared

import "fmt"

// Error kinds. Typed errors in the api, server and auth packages report one of these through
// errors.Is, so callers can branch on the kind without knowing the concrete type.
var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing client credentials")

	// Transport errors (dispatch and token endpoint)
	ErrTransport      = fmt.Errorf("request could not be sent")
	ErrBadStatus      = fmt.Errorf("unexpected status code")
	ErrBodyExtraction = fmt.Errorf("could not extract response body")

	// Redirect / browser errors
	ErrCallback      = fmt.Errorf("failed to read authorization redirect")
	ErrCodeNotFound  = fmt.Errorf("code param not found in redirect")
	ErrBrowserLaunch = fmt.Errorf("failed to open browser")

	// Authentication state errors
	ErrNeedsInitialAuth = fmt.Errorf("not authenticated, run `aerial music auth` to authenticate")
	ErrNeedsRefresh     = fmt.Errorf("access token expired, refresh required")
	ErrRefreshRejected  = fmt.Errorf("refresh token rejected by provider")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")

	// Cache errors
	ErrCacheRead  = fmt.Errorf("failed to read token cache")
	ErrCacheWrite = fmt.Errorf("failed to write token cache")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
