package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBadCredentials is returned by Authenticate when the portal does not
	// redirect with a token.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrUnauthorized matches a StatusError with status 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is a non-2xx answer from the portal.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is makes errors.Is(err, ErrUnauthorized) true for 401 answers.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
