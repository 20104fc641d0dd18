package auth

import "fmt"

// AuthorizationError signals that a request carried no caller identity
// or that the caller is not permitted to use the assistant in a space.
type AuthorizationError struct {
	// Subject is the caller's user key. Empty when the request carried
	// no identity at all.
	Subject string

	// SpaceKey is the space the request targeted, when known.
	SpaceKey string

	// Reason describes why the request was refused.
	Reason string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("caller identity missing: %s", e.Reason)
	}
	if e.SpaceKey != "" {
		return fmt.Sprintf("caller %q not authorized for space %q: %s", e.Subject, e.SpaceKey, e.Reason)
	}
	return fmt.Sprintf("caller %q not authorized: %s", e.Subject, e.Reason)
}
