// Package notifications delivers push notifications through ntfy.
//
// NewService returns a no-op implementation when no topic is
// configured, so callers can notify unconditionally. Delivery failures
// are returned as errors for the caller to log; they never abort a
// scan.
package notifications
