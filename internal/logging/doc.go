// Package logging configures the process-wide slog logger.
//
// Handlers write either human-readable text (interactive terminals) or JSON
// (log files, service managers). Attr helpers keep call sites terse and
// consistent about key names.
package logging
