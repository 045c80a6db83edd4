// Package console holds the line-oriented prompt reader and the colored
// result output used by the demo programs.
package console
