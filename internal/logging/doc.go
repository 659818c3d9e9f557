// Package logging assembles the structured slog loggers used across
// animelens commands and services.
//
// It centralizes level parsing, console/JSON handler selection, and
// optional log-file output, and exposes attr helper aliases plus a
// no-op logger for tests and wiring code that cannot fail. Prefer these
// constructors over hand-rolled slog setup so every component emits
// fields with the same shape.
package logging
