package github

import (
	"fmt"

	gogithub "github.com/google/go-github/github"
	"github.com/pkg/errors"
)

var (
	// ErrAuthenticationRequired is matched by errors of calls that need credentials the client doesn't have
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrAccessRestricted is matched by errors of calls only the authenticated user may make for themselves
	ErrAccessRestricted = errors.New("access restricted to the authenticated user")

	errNoGist = errors.New("no such gist")
)

// AuthenticationRequiredError is returned when Op was called on an anonymous client
type AuthenticationRequiredError struct {
	Op string
}

func (e *AuthenticationRequiredError) Error() string {
	return fmt.Sprintf("%s requires authentication", e.Op)
}

// Is matches ErrAuthenticationRequired
func (e *AuthenticationRequiredError) Is(target error) bool {
	return target == ErrAuthenticationRequired
}

// AccessRestrictedError is returned when Op targeted someone other than the authenticated user
type AccessRestrictedError struct {
	Op     string
	User   string
	Target string
}

func (e *AccessRestrictedError) Error() string {
	return fmt.Sprintf("%s is restricted to the authenticated user: %s can't act on behalf of %s",
		e.Op, e.User, e.Target)
}

// Is matches ErrAccessRestricted
func (e *AccessRestrictedError) Is(target error) bool {
	return target == ErrAccessRestricted
}

// RequestError is a failed round trip: transport failure, bad status or unreadable body
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes the underlying failure, e.g. a *gogithub.ErrorResponse
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Cause supports errors.Cause
func (e *RequestError) Cause() error {
	return e.Err
}

// IsRateLimitError tells if github refused the request because of its rate limits
func IsRateLimitError(err error) bool {
	var rateLimitErr *gogithub.RateLimitError
	var abuseRateLimitErr *gogithub.AbuseRateLimitError

	return errors.As(err, &rateLimitErr) || errors.As(err, &abuseRateLimitErr)
}

// IsNotFound tells if the request failed because the resource doesn't exist
func IsNotFound(err error) bool {
	var errResp *gogithub.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}

	return errResp.Response.StatusCode == 404
}
