// Package anilist provides access to the AniList GraphQL API.
//
// The client covers the two queries animelens needs: fetching the full
// metadata record for a single media identifier, and browsing popular
// titles filtered by genre for recommendations. A media identifier the
// catalog does not know yields a nil record rather than an error, so
// callers can treat missing metadata as a degraded result instead of a
// failure.
package anilist
