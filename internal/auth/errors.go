package auth

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/aerial/internal/shared"
)

// Stage names one fallible step of the initial authorization.
type Stage string

const (
	StageAuthorizeURL Stage = "authorize_url"
	StageBrowser      Stage = "browser"
	StageCallback     Stage = "callback"
	StageTokenRequest Stage = "token_request"
	StageTokenDecode  Stage = "token_decode"
)

// StageError reports the step at which initial authorization stopped.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("initial auth failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// CodeNotFoundError is returned when the redirect carried no "code" parameter.
type CodeNotFoundError struct {
	Params map[string]string
}

func (e *CodeNotFoundError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Params))
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+e.Params[k])
	}
	return fmt.Sprintf("%v (received: %s)", shared.ErrCodeNotFound, strings.Join(pairs, ", "))
}

func (e *CodeNotFoundError) Is(target error) bool {
	return target == shared.ErrCodeNotFound || target == shared.ErrCallback
}
