// Package domain contains the wire contracts of the keycrate licensing API.
// These types are shared by the client in internal/license and the sandbox
// server in internal/sandbox so both sides agree on field names.
package domain

// AuthRequest is the body of POST /auth. Either License or both Username and
// Password identify the caller.
type AuthRequest struct {
	AppID    string `json:"app_id" validate:"required"`
	License  string `json:"license,omitempty"`
	Username string `json:"username,omitempty" validate:"required_without=License"`
	Password string `json:"password,omitempty" validate:"required_without=License"`
	HWID     string `json:"hwid,omitempty"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	AppID    string `json:"app_id" validate:"required"`
	License  string `json:"license" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// Envelope is the response body of every licensing endpoint
type Envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Keys found in Envelope.Data
const (
	DataKeyLicense           = "key"
	DataKeyExpiresAt         = "expires_at"
	DataKeyHWIDResetAllowed  = "hwid_reset_allowed"
	DataKeyLastHWIDResetAt   = "last_hwid_reset_at"
	DataKeyHWIDResetCooldown = "hwid_reset_cooldown"
)

// Message codes returned in Envelope.Message
const (
	CodeAuthenticated = "AUTHENTICATED"
	CodeRegistered    = "REGISTERED"

	CodeLicenseNotFound           = "LICENSE_NOT_FOUND"
	CodeInvalidUsernameOrPassword = "INVALID_USERNAME_OR_PASSWORD"
	CodeLicenseNotActive          = "LICENSE_NOT_ACTIVE"
	CodeDeviceBoundToOtherLicense = "DEVICE_ALREADY_REGISTERED_WITH_OTHER_LICENSE"
	CodeLicenseExpired            = "LICENSE_EXPIRED"
	CodeHWIDMismatch              = "HWID_MISMATCH"

	CodeUsernameTaken         = "USERNAME_ALREADY_TAKEN"
	CodeLicenseAlreadyHasUser = "LICENSE_ALREADY_HAS_USER"
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeRateLimited           = "RATE_LIMITED"
	CodeInternalError         = "INTERNAL_ERROR"
)
