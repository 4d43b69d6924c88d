// Package logging constructs the application's slog loggers. Commands
// build one logger from configuration and pass it down; library packages
// accept a *slog.Logger and never log on their own initiative.
package logging
