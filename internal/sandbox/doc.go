// Package sandbox is a local, in-memory implementation of the keycrate
// licensing API. It serves POST /auth and POST /register with the same
// envelope and message codes as the hosted service so the demo programs can
// run and be tested offline.
//
// Licenses come from a YAML seed file:
//
//	licenses:
//	  - key: DEMO-AAAA-BBBB-CCCC
//	    app_id: YOUR_APP_ID
//	    active: true
//	    expires_at: "2030-01-01T00:00:00Z"
//	    hwid_reset_allowed: true
//	    hwid_reset_cooldown: 3600
//	    username: demo
//	    password: demo
//
// Passwords are bcrypt-hashed when the seed is loaded and never kept in
// plain text.
package sandbox
