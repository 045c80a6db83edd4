package license

import "strings"

// MaskLicenseKey masks a license key for logs (ABCD-EFGH-****-****)
func MaskLicenseKey(key string) string {
	if len(key) < 8 {
		return "****"
	}

	if strings.Contains(key, "-") {
		parts := strings.Split(key, "-")
		if len(parts) > 2 {
			masked := parts[0] + "-" + parts[1]
			for i := 2; i < len(parts); i++ {
				masked += "-****"
			}
			return masked
		}
	}

	return key[:4] + "****" + key[len(key)-4:]
}
