// Package log builds the slog loggers used by pwdfinder.
//
// Every logger returned here wraps its output handler in a SecureHandler,
// which masks attributes that may carry a recovered password, a candidate
// word, a target hash or a salt. Diagnostics meant for the user (skipped
// dictionary words, the result line) are not logs and do not go through
// this package.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("match committed", "rank", 2, "password", word) // password=***REDACTED***
//	slog.SetDefault(logger)
package log
