package api

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// PacedTransport waits on a token bucket before each round trip. It never retries.
type PacedTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

func (t *PacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewHTTPClient builds the client used for API and token calls. A non-positive requestsPerSecond
// disables pacing; a non-positive timeout leaves the client without one.
func NewHTTPClient(timeout time.Duration, requestsPerSecond float64) *http.Client {
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	if requestsPerSecond > 0 {
		client.Transport = &PacedTransport{
			Base:    http.DefaultTransport,
			Limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		}
	}
	return client
}
