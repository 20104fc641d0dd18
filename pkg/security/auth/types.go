package auth

// Caller identifies the host user a generation request is made on
// behalf of. The host supplies the identity; quill never derives one.
type Caller struct {
	// Subject is the host's stable user key.
	Subject string

	// DisplayName is an optional human-readable name used in logs and
	// the request ledger.
	DisplayName string
}

// Valid reports whether the caller carries an identity.
func (c Caller) Valid() bool {
	return c.Subject != ""
}
