// Package security computes the hardware identifier (HWID) that binds a
// license to a device.
//
// On Windows the CPU id, BIOS serial and first logical-disk serial are read
// with wmic, joined with "|", hashed with SHA-256 and truncated to 16 hex
// characters. Parts that cannot be read are left out. Other platforms get
// the fixed value "unsupported-platform".
package security
