package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/aerial/internal/api"
	"github.com/desertthunder/aerial/internal/server"
	"github.com/desertthunder/aerial/internal/shared"
	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL = "https://accounts.spotify.com"
	DefaultPort    = 8888
)

// DefaultScopes are the permissions the playback commands need.
var DefaultScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-library-modify",
	"user-top-read",
}

// Listener waits for the authorization redirect on port.
type Listener func(port int) (*server.CallbackRequest, error)

// FlowOpts configures a [Flow]. Zero values fall back to defaults.
type FlowOpts struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	Port         int
	Scopes       []string
	Browser      shared.BrowserOpener
	Listen       Listener
	HTTPClient   *http.Client
	Logger       *log.Logger
	Now          func() time.Time
}

// Flow runs the authorization-code grant and refreshes tokens against one token endpoint.
type Flow struct {
	clientID     string
	clientSecret string
	authURL      string
	port         int
	scopes       []string
	browser      shared.BrowserOpener
	listen       Listener
	httpClient   *http.Client
	logger       *log.Logger
	now          func() time.Time
}

// NewFlow creates a [Flow] from opts.
func NewFlow(opts FlowOpts) *Flow {
	f := &Flow{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		authURL:      strings.TrimRight(opts.AuthURL, "/"),
		port:         opts.Port,
		scopes:       opts.Scopes,
		browser:      opts.Browser,
		listen:       opts.Listen,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		now:          opts.Now,
	}

	if f.authURL == "" {
		f.authURL = DefaultAuthURL
	}
	if f.port == 0 {
		f.port = DefaultPort
	}
	if len(f.scopes) == 0 {
		f.scopes = DefaultScopes
	}
	if f.browser == nil {
		f.browser = shared.OpenBrowser
	}
	if f.listen == nil {
		f.listen = server.Listen
	}
	if f.httpClient == nil {
		f.httpClient = http.DefaultClient
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// RedirectURI is the local callback address registered with the provider.
func (f *Flow) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", f.port)
}

// TokenURL is the provider's token endpoint.
func (f *Flow) TokenURL() string {
	return f.authURL + "/api/token"
}

func (f *Flow) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		RedirectURL:  f.RedirectURI(),
		Scopes:       f.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   f.authURL + "/authorize",
			TokenURL:  f.TokenURL(),
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// AuthorizeURL returns the consent page URL with response_type, client_id, redirect_uri and scope.
func (f *Flow) AuthorizeURL() (string, error) {
	if _, err := url.ParseRequestURI(f.authURL); err != nil {
		return "", fmt.Errorf("%w: auth url %q: %v", shared.ErrInvalidConfig, f.authURL, err)
	}
	return f.oauthConfig().AuthCodeURL(""), nil
}

// InitialAuth sends the user through the consent page and returns the issued token.
func (f *Flow) InitialAuth(ctx context.Context) (Token, error) {
	authorizeURL, err := f.AuthorizeURL()
	if err != nil {
		return Token{}, &StageError{Stage: StageAuthorizeURL, Err: err}
	}

	f.logger.Info("opening browser for authorization", "url", authorizeURL)
	if err := f.browser(authorizeURL); err != nil {
		return Token{}, &StageError{Stage: StageBrowser, Err: err}
	}

	f.logger.Debug("waiting for redirect", "port", f.port)
	req, err := f.listen(f.port)
	if err != nil {
		return Token{}, &StageError{Stage: StageCallback, Err: err}
	}

	code, ok := req.Params["code"]
	if !ok || code == "" {
		return Token{}, &StageError{Stage: StageCallback, Err: &CodeNotFoundError{Params: req.Params}}
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {f.RedirectURI()},
	}

	f.logger.Debug("exchanging authorization code")
	body, err := f.requestToken(ctx, form)
	if err != nil {
		return Token{}, &StageError{Stage: StageTokenRequest, Err: err}
	}

	tok, err := f.decodeToken(body)
	if err != nil {
		return Token{}, &StageError{Stage: StageTokenDecode, Err: err}
	}
	return tok, nil
}

// Refresh exchanges old.RefreshToken for a new token, keeping old.RefreshToken when the provider
// does not rotate it.
//
// A 4xx from the token endpoint (revoked or unknown grant) is shared.ErrRefreshRejected; anything
// else is shared.ErrRefreshFailed.
func (f *Flow) Refresh(ctx context.Context, old Token) (Token, error) {
	if old.RefreshToken == "" {
		return Token{}, fmt.Errorf("%w: no refresh token cached", shared.ErrRefreshRejected)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {old.RefreshToken},
	}

	f.logger.Debug("refreshing access token", "expired_at", old.ExpiresAt())
	body, err := f.requestToken(ctx, form)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			return Token{}, fmt.Errorf("%w: %w", shared.ErrRefreshRejected, err)
		}
		return Token{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	tok, err := f.decodeToken(body)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	if tok.RefreshToken == "" {
		tok.RefreshToken = old.RefreshToken
	}
	return tok, nil
}

func (f *Flow) requestToken(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create token request: %v", shared.ErrInvalidConfig, err)
	}

	req.SetBasicAuth(f.clientID, f.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return api.Execute(f.httpClient, req)
}

// decodeToken stamps IssuedAt with the receipt time.
func (f *Flow) decodeToken(body []byte) (Token, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Token{}, &api.ExtractionError{Body: string(body), Err: err}
	}
	if resp.AccessToken == "" {
		return Token{}, &api.ExtractionError{Body: string(body), Err: fmt.Errorf("token response has no access_token")}
	}
	if resp.TokenType == "" {
		resp.TokenType = "Bearer"
	}
	return resp.token(f.now()), nil
}
