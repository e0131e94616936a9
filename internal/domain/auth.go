package domain

// AuthMode is the authentication state of a session.
type AuthMode string

const (
	// ModeAnonymous means no credential is present.
	ModeAnonymous AuthMode = "anonymous"
	// ModeAuthenticating means a login request is in flight.
	ModeAuthenticating AuthMode = "authenticating"
	// ModeAuthenticated means a credential is present and attached to requests.
	ModeAuthenticated AuthMode = "authenticated"
)

// IsAuthenticated reports whether requests can carry a credential.
func (m AuthMode) IsAuthenticated() bool {
	return m == ModeAuthenticated
}
