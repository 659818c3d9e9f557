// Package trace provides access to the trace.moe reverse image search
// API.
//
// A search submits an image (direct upload or URL) and returns a set of
// candidate matches, each carrying the AniList media identifier, a
// similarity score in [0,1], the matched scene segment, and preview
// URIs. An empty result set is a valid response meaning "no match", not
// an error; a non-empty error field in the payload is a service-side
// failure and is surfaced as one.
package trace
