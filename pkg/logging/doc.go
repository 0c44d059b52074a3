// Package logging provides structured logging utilities for the fact collector.
//
// # Overview
//
// This package wraps the standard library slog package with consistent
// defaults: JSON records on stderr, module and version attributes on every
// record, and a level taken from the LOG_LEVEL environment variable or the
// --log-level flag. Standard output is reserved for facts, so nothing here
// ever writes to it.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("skytap-facts", version)
//	    slog.Info("fetching metadata", "url", url)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("skytap-facts", "v1.0.0", "warn")
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "facts written",
//	    "module": "skytap-facts",
//	    "version": "v1.0.0",
//	    "count": 14
//	}
package logging
