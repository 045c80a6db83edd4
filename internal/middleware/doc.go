// Package middleware provides the chi middleware stack of the sandbox
// licensing server: request ids, request logging, panic recovery, rate
// limiting and OpenTelemetry instrumentation. Failures are written in the
// same JSON envelope the licensing endpoints use.
package middleware
