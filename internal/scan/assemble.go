package scan

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"animelens/internal/anilist"
	"animelens/internal/profile"
	"animelens/internal/trace"
)

const (
	maxHistoryTags   = 5
	maxSynopsisRunes = 200
)

// Result is the immutable outcome of one scan: the selected candidate,
// its catalog metadata when available, and the assembly timestamp.
type Result struct {
	Match     trace.Match    `json:"match"`
	Media     *anilist.Media `json:"media,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Assemble combines the selected match with its catalog metadata. A nil
// media produces a degraded but valid result; a media whose identifier
// disagrees with the match fails with ErrMediaMismatch. The timestamp
// comes from the caller's clock so assembly stays pure.
func Assemble(match trace.Match, media *anilist.Media, at time.Time) (Result, error) {
	if media != nil && media.ID != match.AnilistID {
		return Result{}, fmt.Errorf("media %d for match %d: %w", media.ID, match.AnilistID, ErrMediaMismatch)
	}
	return Result{Match: match, Media: media, Timestamp: at}, nil
}

// HistoryItem projects the result into its persisted form: a fresh
// unique id, the first five tags in the order the catalog ranked them,
// and the synopsis cut to 200 characters with no word-boundary
// adjustment. Results without catalog metadata are never recorded and
// return ErrNoCatalog.
func (r Result) HistoryItem() (profile.HistoryItem, error) {
	if r.Media == nil {
		return profile.HistoryItem{}, ErrNoCatalog
	}

	tags := make([]string, 0, maxHistoryTags)
	for _, tag := range r.Media.Tags {
		if len(tags) == maxHistoryTags {
			break
		}
		tags = append(tags, tag.Name)
	}

	return profile.HistoryItem{
		ID:        uuid.NewString(),
		AnilistID: r.Media.ID,
		Title:     r.Media.Title.Romaji,
		CoverURL:  r.Media.CoverImage.Large,
		Timestamp: r.Timestamp,
		Tags:      tags,
		Synopsis:  truncateRunes(r.Media.Description, maxSynopsisRunes),
		Genres:    slices.Clone(r.Media.Genres),
	}, nil
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
