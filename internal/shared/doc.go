// Package shared holds code used across keycratecli packages that belongs to
// no single domain.
//
// The testutil subpackage provides test helpers:
//
//   - a buffered slog handler that records log lines for assertions
//   - seed-file and console helpers for the demo and sandbox tests
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    run(logger)
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "started")
//	}
package shared
