// Package logging assembles the structured slog loggers used across
// Pressmark.
//
// It owns the text/JSON handler plumbing, centralizes level parsing and
// output routing, and exposes context-aware helpers so engine code can
// automatically tag log lines with inbox item IDs and request correlation
// IDs. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
