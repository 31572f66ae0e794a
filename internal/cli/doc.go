// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's startup options, recording
// only explicitly set flags as configuration overrides.
package cli
