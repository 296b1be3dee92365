package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/aerial/internal/shared"
)

// Authorizer supplies the Authorization header value, e.g. "Bearer <token>", for each request.
type Authorizer interface {
	Authorization(ctx context.Context) (string, error)
}

// Dispatcher executes [Spec] values against one API base URL.
type Dispatcher struct {
	baseURL    string
	auth       Authorizer
	httpClient *http.Client
	logger     *log.Logger
}

// NewDispatcher creates a dispatcher for baseURL. A nil client uses [http.DefaultClient] and a nil
// logger discards output.
func NewDispatcher(baseURL string, auth Authorizer, client *http.Client, logger *log.Logger) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Dispatcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		httpClient: client,
		logger:     logger,
	}
}

// URL resolves path and query against the base URL. Query keys are encoded in sorted order.
func (d *Dispatcher) URL(path string, query map[string]string) string {
	u := d.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) == 0 {
		return u
	}

	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}
	return u + "?" + values.Encode()
}

// Dispatch sends spec and decodes the 2xx body into T.
func Dispatch[T any](ctx context.Context, d *Dispatcher, spec Spec[T]) (T, error) {
	var zero T

	body, err := d.Send(ctx, spec.Method, spec.Path, spec.Query, spec.Body)
	if err != nil {
		return zero, err
	}
	return decode[T](body)
}

// Send performs one request and returns the raw 2xx body.
func (d *Dispatcher) Send(ctx context.Context, method, path string, query map[string]string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", shared.ErrInvalidInput, err)
		}
		reader = bytes.NewReader(data)
	}

	target := d.URL(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrInvalidInput, err)
	}

	if d.auth != nil {
		header, err := d.auth.Authorization(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", header)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := shared.GenerateID()
	d.logger.Debug("dispatching request", "request_id", requestID, "method", method, "path", path)

	body, err := Execute(d.httpClient, req)
	if err != nil {
		d.logger.Debug("request failed", "request_id", requestID, "error", err)
		return nil, err
	}

	d.logger.Debug("request succeeded", "request_id", requestID, "bytes", len(body))
	return body, nil
}

// Execute sends req with client and classifies the outcome into [*TransportError],
// [*StatusError] or a raw 2xx body.
func Execute(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: redact(req.URL), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: redact(req.URL), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// redact drops the query string, which can carry search terms or ids, from logged URLs.
func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
