// Package logging provides subsystem-tagged structured logging for myges.
//
// It is a thin layer over log/slog: every entry carries a "subsystem"
// attribute and, for errors, an "error" attribute. The CLI initialises it
// once at startup, writing to stderr so that logs never mix with tables on
// stdout.
//
//	logging.InitForCLI(logging.LevelDebug, os.Stderr)
//
//	logging.Debug("API", "GET %s", path)
//	logging.Info("Config", "Loaded configuration from %s", file)
//	logging.Warn("Calendar", "Retrying throttled request for event %s", id)
//	logging.Error("Auth", err, "Token exchange failed")
//
// Subsystems used across the code base: API, Auth, Config, Calendar, CLI.
//
// Before InitForCLI is called, entries go to the slog default logger.
package logging
