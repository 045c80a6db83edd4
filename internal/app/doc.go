// Package app implements the two interactive demo flows: the guided full
// demo (HWID, login, post-login register) and the numbered-menu simple demo.
// Both talk to the licensing API through the Authenticator interface.
package app
