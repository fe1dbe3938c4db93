// Package log builds the slog loggers used by pwforge.
//
// Every logger returned by this package is wrapped in a SecureHandler.
// Generated candidates are passwords, and crawled sites may require cookies
// or bearer tokens, so the handler replaces such values with MaskValue
// before they reach the underlying text or JSON handler. This applies in
// verbose mode too.
//
//	logger := log.New(os.Stderr, log.WithVerbose(true))
//	logger.Debug("accepted", "candidate", "Jambo_pesa") // candidate=***REDACTED***
//	slog.SetDefault(logger)
//
// The handler wraps any slog.Handler, so loggers handed to tornago are
// sanitized as well.
package log
