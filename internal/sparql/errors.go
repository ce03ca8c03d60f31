package sparql

import (
	"fmt"
	"time"
)

// APIError is a non-2xx response from the triple store.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.RequestID != "":
		return fmt.Sprintf("graphdb error: status=%d request_id=%s message=%s", e.StatusCode, e.RequestID, e.Message)
	case e.Message != "":
		return fmt.Sprintf("graphdb error: status=%d message=%s", e.StatusCode, e.Message)
	case e.RequestID != "":
		return fmt.Sprintf("graphdb error: status=%d request_id=%s", e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("graphdb error: status=%d", e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// BadRequestError usually means a malformed query (400).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }

// RepositoryNotFoundError indicates the repository id does not exist (404).
type RepositoryNotFoundError struct {
	*APIError
	Repository string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository %q not found: %s", e.Repository, e.APIError.Error())
}

// ServerError indicates 5xx errors from the store.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("server error: %s", e.APIError.Error()) }

// UnreachableError indicates the store could not be contacted at all.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("graphdb unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("graphdb unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
