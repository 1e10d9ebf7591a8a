// Package logging builds the root slog.Logger from configuration.
package logging
