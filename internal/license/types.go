package license

import "keycratecli/pkg/contracts/domain"

// AuthenticateOptions identifies the caller by license key or by
// username and password. HWID binds the session to a device.
type AuthenticateOptions struct {
	License  string
	Username string
	Password string
	HWID     string
}

// RegisterOptions binds a username and password to a license key
type RegisterOptions struct {
	License  string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// AuthResult is the outcome of Authenticate
type AuthResult struct {
	Success bool
	Message string
	Data    map[string]any
}

// LicenseKey returns data.key when the server sent one
func (r *AuthResult) LicenseKey() (string, bool) {
	if r == nil {
		return "", false
	}
	return stringField(r.Data, domain.DataKeyLicense)
}

// RegisterResult is the outcome of Register
type RegisterResult struct {
	Success bool
	Message string
}
