package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrUpstream           = fmt.Errorf("spotify API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNoDevice           = fmt.Errorf("no playback device available")
	ErrTokenNotFound      = fmt.Errorf("token not found")

	// Normalization errors
	ErrUnknownCategory  = fmt.Errorf("unknown search category")
	ErrMalformedEntity  = fmt.Errorf("malformed entity")
	ErrUnknownItemType  = fmt.Errorf("unknown item type")
	ErrInvalidItemURI   = fmt.Errorf("invalid item uri")
	ErrNothingToDisplay = fmt.Errorf("nothing to display")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// Malformed reports a raw object of the given kind that lacks a mandatory field.
func Malformed(kind, field string) error {
	return fmt.Errorf("%w: %s missing %q", ErrMalformedEntity, kind, field)
}
