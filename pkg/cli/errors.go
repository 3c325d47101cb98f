package cli

import "errors"

// Common CLI errors
var (
	// ErrToolFailed is returned after a failure envelope has been printed.
	ErrToolFailed = errors.New("tool call failed")
)
