// Package license is the client side of the keycrate licensing API.
//
// # Operations
//
// The API is consumed through exactly two calls:
//
//	client := license.NewClient("https://api.keycrate.dev", "YOUR_APP_ID")
//	res, err := client.Authenticate(ctx, license.AuthenticateOptions{License: key, HWID: hwid})
//	reg, err := client.Register(ctx, license.RegisterOptions{License: key, Username: u, Password: p})
//
// A returned error means the call did not produce a result: the request was
// rejected locally (errors.ErrInvalidInput), the server could not be reached
// (errors.ErrConnection) or the reply was not a result envelope
// (errors.ErrInvalidResponse). A logical failure such as an expired license is
// a result with Success false and a message code.
//
// # Error Codes
//
// Explain turns a message code plus the result data into the lines shown to
// the user. Codes without an entry fall through to a generic
// "contact support" line that repeats the raw code.
//
// No retries or caching are performed; every call is one HTTP request.
package license
