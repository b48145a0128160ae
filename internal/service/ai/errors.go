package ai

import "errors"

var (
	// ErrMessageRequired rejects a blank visitor message before any upstream call.
	ErrMessageRequired = errors.New("message is required")
	// ErrInvalidHistory rejects history entries with an unknown role.
	ErrInvalidHistory = errors.New("conversation history contains an invalid role")
	// ErrNotConfigured means the completion service credential is missing.
	ErrNotConfigured = errors.New("completion service credential not configured")
	// ErrUpstream wraps failures and malformed replies from the completion service.
	ErrUpstream = errors.New("completion service failed")
)

// IsClientError reports whether err stems from invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMessageRequired) || errors.Is(err, ErrInvalidHistory)
}
