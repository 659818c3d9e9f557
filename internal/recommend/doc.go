// Package recommend suggests related titles after a scan by browsing
// popular AniList entries that share the scanned title's leading
// genres.
package recommend
