package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/aerial/internal/server"
	"github.com/desertthunder/aerial/internal/shared"
	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// tokenServer serves /api/token with handler and records the last form it received.
func tokenServer(t *testing.T, handler func(w http.ResponseWriter, form url.Values)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token" {
			t.Errorf("expected /api/token, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", got)
		}

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("expected basic auth %q, got %q", want, got)
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		handler(w, r.PostForm)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFlow(srvURL string, opts FlowOpts) *Flow {
	opts.ClientID = "client-id"
	opts.ClientSecret = "client-secret"
	opts.AuthURL = srvURL
	opts.Now = func() time.Time { return fixedNow }
	if opts.Browser == nil {
		opts.Browser = func(string) error { return nil }
	}
	return NewFlow(opts)
}

func TestFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("AuthorizeURL", func(t *testing.T) {
		f := NewFlow(FlowOpts{ClientID: "abc", ClientSecret: "xyz", Port: 9999})

		raw, err := f.AuthorizeURL()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("failed to parse authorize url: %v", err)
		}
		if u.Scheme+"://"+u.Host+u.Path != "https://accounts.spotify.com/authorize" {
			t.Errorf("unexpected authorize endpoint %s", raw)
		}

		q := u.Query()
		want := map[string]string{
			"response_type": "code",
			"client_id":     "abc",
			"redirect_uri":  "http://localhost:9999/callback",
			"scope":         strings.Join(DefaultScopes, " "),
		}
		if len(q) != len(want) {
			t.Errorf("expected exactly %d params, got %v", len(want), q)
		}
		for k, v := range want {
			if len(q[k]) != 1 {
				t.Errorf("expected %s exactly once, got %v", k, q[k])
				continue
			}
			if q[k][0] != v {
				t.Errorf("expected %s=%s, got %s", k, v, q[k][0])
			}
		}
	})

	t.Run("AuthorizeURL Invalid Base", func(t *testing.T) {
		f := NewFlow(FlowOpts{AuthURL: "not a url"})
		if _, err := f.AuthorizeURL(); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("InitialAuth", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				want := url.Values{
					"grant_type":   {"authorization_code"},
					"code":         {"ABC123"},
					"redirect_uri": {"http://localhost:8888/callback"},
				}
				if diff := cmp.Diff(want, form); diff != "" {
					t.Errorf("form mismatch (-want +got):\n%s", diff)
				}
				io.WriteString(w, `{"access_token":"A1","token_type":"Bearer","expires_in":3600,"refresh_token":"R1","scope":"user-read-playback-state"}`)
			})

			var opened string
			var listenedOn int
			f := newTestFlow(srv.URL, FlowOpts{
				HTTPClient: srv.Client(),
				Browser:    func(u string) error { opened = u; return nil },
				Listen: func(port int) (*server.CallbackRequest, error) {
					listenedOn = port
					return &server.CallbackRequest{Method: "GET", Path: "/callback", Params: map[string]string{"code": "ABC123"}}, nil
				},
			})

			tok, err := f.InitialAuth(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := Token{AccessToken: "A1", TokenType: "Bearer", ExpiresIn: time.Hour, IssuedAt: fixedNow, RefreshToken: "R1"}
			if diff := cmp.Diff(want, tok); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
			if !strings.HasPrefix(opened, srv.URL+"/authorize?") {
				t.Errorf("expected browser to open authorize url, got %s", opened)
			}
			if listenedOn != DefaultPort {
				t.Errorf("expected listener on %d, got %d", DefaultPort, listenedOn)
			}
		})

		t.Run("Browser Failure", func(t *testing.T) {
			listened := false
			f := newTestFlow("https://accounts.example.com", FlowOpts{
				Browser: func(string) error { return fmt.Errorf("%w: no display", shared.ErrBrowserLaunch) },
				Listen: func(int) (*server.CallbackRequest, error) {
					listened = true
					return nil, nil
				},
			})

			_, err := f.InitialAuth(ctx)
			assertStage(t, err, StageBrowser)
			if !errors.Is(err, shared.ErrBrowserLaunch) {
				t.Errorf("expected ErrBrowserLaunch, got %v", err)
			}
			if listened {
				t.Error("listener must not run after browser failure")
			}
		})

		t.Run("Listener Failure", func(t *testing.T) {
			f := newTestFlow("https://accounts.example.com", FlowOpts{
				Listen: func(int) (*server.CallbackRequest, error) {
					return nil, &server.CallbackError{State: server.ErrBindFailed, Err: errors.New("address in use")}
				},
			})

			_, err := f.InitialAuth(ctx)
			assertStage(t, err, StageCallback)
			if !errors.Is(err, server.ErrBindFailed) {
				t.Errorf("expected ErrBindFailed, got %v", err)
			}
		})

		t.Run("Code Not Found", func(t *testing.T) {
			f := newTestFlow("https://accounts.example.com", FlowOpts{
				Listen: func(int) (*server.CallbackRequest, error) {
					return server.ParseRequestLine("GET /callback?error=access_denied HTTP/1.1")
				},
			})

			_, err := f.InitialAuth(ctx)
			assertStage(t, err, StageCallback)
			if !errors.Is(err, shared.ErrCodeNotFound) {
				t.Errorf("expected ErrCodeNotFound, got %v", err)
			}

			var notFound *CodeNotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected *CodeNotFoundError, got %T", err)
			}
			if diff := cmp.Diff(map[string]string{"error": "access_denied"}, notFound.Params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(err.Error(), "error=access_denied") {
				t.Errorf("expected params in message, got %s", err)
			}
		})

		t.Run("Token Endpoint Rejects", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid authorization code"}`)
			})
			f := newTestFlow(srv.URL, FlowOpts{
				HTTPClient: srv.Client(),
				Listen: func(int) (*server.CallbackRequest, error) {
					return &server.CallbackRequest{Params: map[string]string{"code": "stale"}}, nil
				},
			})

			_, err := f.InitialAuth(ctx)
			assertStage(t, err, StageTokenRequest)
			if !errors.Is(err, shared.ErrBadStatus) {
				t.Errorf("expected ErrBadStatus, got %v", err)
			}
		})

		t.Run("Token Decode Failure", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				io.WriteString(w, `<html>not json</html>`)
			})
			f := newTestFlow(srv.URL, FlowOpts{
				HTTPClient: srv.Client(),
				Listen: func(int) (*server.CallbackRequest, error) {
					return &server.CallbackRequest{Params: map[string]string{"code": "ok"}}, nil
				},
			})

			_, err := f.InitialAuth(ctx)
			assertStage(t, err, StageTokenDecode)
			if !errors.Is(err, shared.ErrBodyExtraction) {
				t.Errorf("expected ErrBodyExtraction, got %v", err)
			}
		})
	})

	t.Run("Refresh", func(t *testing.T) {
		old := Token{AccessToken: "A0", TokenType: "Bearer", ExpiresIn: time.Hour, IssuedAt: fixedNow.Add(-2 * time.Hour), RefreshToken: "R1"}

		t.Run("Carries Refresh Token Forward", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				want := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {"R1"}}
				if diff := cmp.Diff(want, form); diff != "" {
					t.Errorf("form mismatch (-want +got):\n%s", diff)
				}
				io.WriteString(w, `{"access_token":"A2","token_type":"Bearer","expires_in":3600}`)
			})
			f := newTestFlow(srv.URL, FlowOpts{HTTPClient: srv.Client()})

			tok, err := f.Refresh(ctx, old)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tok.RefreshToken != "R1" {
				t.Errorf("expected refresh token R1 to be carried forward, got %q", tok.RefreshToken)
			}
			if tok.AccessToken != "A2" {
				t.Errorf("expected new access token A2, got %q", tok.AccessToken)
			}
			if !tok.IssuedAt.Equal(fixedNow) {
				t.Errorf("expected issued_at stamped with now, got %v", tok.IssuedAt)
			}
			if old.AccessToken != "A0" {
				t.Error("old token must not be mutated")
			}
		})

		t.Run("Uses Rotated Refresh Token", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				io.WriteString(w, `{"access_token":"A2","token_type":"Bearer","expires_in":3600,"refresh_token":"R2"}`)
			})
			f := newTestFlow(srv.URL, FlowOpts{HTTPClient: srv.Client()})

			tok, err := f.Refresh(ctx, old)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tok.RefreshToken != "R2" {
				t.Errorf("expected rotated refresh token R2, got %q", tok.RefreshToken)
			}
		})

		t.Run("Rejected Grant", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
			})
			f := newTestFlow(srv.URL, FlowOpts{HTTPClient: srv.Client()})

			_, err := f.Refresh(ctx, old)
			if !errors.Is(err, shared.ErrRefreshRejected) {
				t.Errorf("expected ErrRefreshRejected, got %v", err)
			}
			if errors.Is(err, shared.ErrRefreshFailed) {
				t.Error("a rejected grant must not also report ErrRefreshFailed")
			}
		})

		t.Run("Server Failure", func(t *testing.T) {
			srv := tokenServer(t, func(w http.ResponseWriter, form url.Values) {
				w.WriteHeader(http.StatusServiceUnavailable)
			})
			f := newTestFlow(srv.URL, FlowOpts{HTTPClient: srv.Client()})

			_, err := f.Refresh(ctx, old)
			if !errors.Is(err, shared.ErrRefreshFailed) {
				t.Errorf("expected ErrRefreshFailed, got %v", err)
			}
			if !errors.Is(err, shared.ErrBadStatus) {
				t.Errorf("expected wrapped ErrBadStatus, got %v", err)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			srv := httptest.NewServer(http.NotFoundHandler())
			srv.Close()
			f := newTestFlow(srv.URL, FlowOpts{})

			_, err := f.Refresh(ctx, old)
			if !errors.Is(err, shared.ErrRefreshFailed) {
				t.Errorf("expected ErrRefreshFailed, got %v", err)
			}
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected wrapped ErrTransport, got %v", err)
			}
		})

		t.Run("Missing Refresh Token", func(t *testing.T) {
			f := newTestFlow("https://accounts.example.com", FlowOpts{})

			_, err := f.Refresh(ctx, Token{AccessToken: "A0"})
			if !errors.Is(err, shared.ErrRefreshRejected) {
				t.Errorf("expected ErrRefreshRejected, got %v", err)
			}
		})
	})
}

func assertStage(t *testing.T, err error, stage Stage) {
	t.Helper()
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected *StageError, got %T (%v)", err, err)
	}
	if stageErr.Stage != stage {
		t.Errorf("expected stage %s, got %s", stage, stageErr.Stage)
	}
}
