// Package logging provides structured logging utilities with context propagation.
//
// Loggers are JSON by default (LOG_FORMAT=text for local development) and can
// additionally write to a rotating file when LOG_FILE is set.
//
//	logger, closer := logging.NewLogger(logging.OptionsFromEnv())
//	defer closer.Close()
//	slog.SetDefault(logger)
package logging
