package api

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNotJSON = errors.New("response body is not valid JSON")

// Spec describes one API operation. T is the response type.
type Spec[T any] struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

// NoResponse is the response type of endpoints that reply with an empty or ignored body.
type NoResponse struct{}

// Optional holds a response payload the provider may or may not send.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present
}

type bodyDecoder interface {
	decodeBody(data []byte) error
}

// decodeBody treats an empty, null or wrongly shaped body as absent.
// A body that is not JSON at all is an extraction failure.
func (o *Optional[T]) decodeBody(data []byte) error {
	*o = Optional[T]{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if !json.Valid(trimmed) {
		return &ExtractionError{Body: string(data), Err: errNotJSON}
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil
	}
	*o = Some(v)
	return nil
}

// decode fills a T from a 2xx response body.
func decode[T any](data []byte) (T, error) {
	var out T
	switch v := any(&out).(type) {
	case *NoResponse:
		return out, nil
	case bodyDecoder:
		return out, v.decodeBody(data)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, &ExtractionError{Body: string(data), Err: err}
	}
	return out, nil
}
