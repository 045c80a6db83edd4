package license

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"keycratecli/pkg/contracts/domain"
)

// expiryLayout renders expiry timestamps for people
const expiryLayout = "2006-01-02 15:04:05"

// explainFunc produces the guidance lines for one message code
type explainFunc func(data map[string]any, now time.Time) []string

// explanations maps every known message code to its guidance
var explanations = map[string]explainFunc{
	domain.CodeLicenseNotFound:           static("License key not found – double-check it."),
	domain.CodeInvalidUsernameOrPassword: static("Wrong username or password."),
	domain.CodeLicenseNotActive:          static("License is not active – contact support."),
	domain.CodeDeviceBoundToOtherLicense: static("This device is already bound to another license."),
	domain.CodeLicenseExpired:            explainExpired,
	domain.CodeHWIDMismatch:              explainHWIDMismatch,
}

func static(line string) explainFunc {
	return func(map[string]any, time.Time) []string { return []string{line} }
}

// FailureHeadline is the first line printed for a failed authentication
func FailureHeadline(code string) string {
	return "Authentication failed: " + code
}

// IsKnownCode reports whether code has a dedicated explanation
func IsKnownCode(code string) bool {
	_, ok := explanations[code]
	return ok
}

// Explain returns the lines describing code. data may be nil. now is used
// only for cooldown arithmetic.
func Explain(code string, data map[string]any, now time.Time) []string {
	if fn, ok := explanations[code]; ok {
		return fn(data, now)
	}
	return []string{fmt.Sprintf("Unexpected error: %s. Contact support.", code)}
}

// ExplainNow is Explain at the current time
func ExplainNow(code string, data map[string]any) []string {
	return Explain(code, data, time.Now())
}

func explainExpired(data map[string]any, _ time.Time) []string {
	raw, ok := stringField(data, domain.DataKeyExpiresAt)
	if !ok {
		return []string{"License has expired."}
	}
	expiresAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return []string{"License has expired (invalid date format)."}
	}
	return []string{fmt.Sprintf("License expired on: %s UTC", expiresAt.Format(expiryLayout))}
}

func explainHWIDMismatch(data map[string]any, now time.Time) []string {
	lines := []string{"HWID does not match the registered device."}

	if allowed, ok := boolField(data, domain.DataKeyHWIDResetAllowed); !ok || !allowed {
		return append(lines, "HWID reset not allowed.")
	}

	lastRaw, okLast := stringField(data, domain.DataKeyLastHWIDResetAt)
	cooldown, okCooldown := intField(data, domain.DataKeyHWIDResetCooldown)
	if !okLast || !okCooldown {
		return append(lines, "Try resetting HWID.")
	}

	last, err := time.Parse(time.RFC3339, lastRaw)
	if err != nil {
		return append(lines, "Try resetting HWID (invalid timestamp).")
	}

	// Whole seconds, truncated toward zero.
	elapsed := int64(now.Sub(last) / time.Second)
	if left := cooldown - elapsed; left > 0 {
		return append(lines, fmt.Sprintf("Reset available in %d seconds.", left))
	}
	return append(lines, "HWID reset is now available.")
}

func stringField(data map[string]any, key string) (string, bool) {
	s, ok := data[key].(string)
	return s, ok
}

func boolField(data map[string]any, key string) (bool, bool) {
	b, ok := data[key].(bool)
	return b, ok
}

// intField accepts the integer shapes a decoded JSON number can take.
// Fractional values are rejected.
func intField(data map[string]any, key string) (int64, bool) {
	switch v := data[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
