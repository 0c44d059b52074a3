// Package errors provides structured error types used across the fact
// collector so the CLI can log a code alongside the diagnostic.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "metadata request failed",
//	    cause,
//	    map[string]any{
//	        "url": url,
//	    },
//	)
package errors
