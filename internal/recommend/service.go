package recommend

import (
	"context"
	"fmt"
	"log/slog"

	"animelens/internal/anilist"
	"animelens/internal/logging"
)

const (
	// browsePerPage is the page size requested from the catalog before
	// the exclusion filter runs.
	browsePerPage = 12
	// maxResults caps the list shown to the user.
	maxResults = 8
	// maxSeedGenres bounds how many of the scanned title's genres seed
	// the query.
	maxSeedGenres = 2
)

// Service produces genre-based recommendations.
type Service struct {
	browser anilist.Browser
	logger  *slog.Logger
}

// NewService builds a recommendation service over the catalog browser.
func NewService(browser anilist.Browser, logger *slog.Logger) *Service {
	return &Service{
		browser: browser,
		logger:  logging.NewComponentLogger(logger, "recommend"),
	}
}

// ForMedia returns up to eight popular titles sharing the first genres
// of the scanned entry, excluding the scanned entry itself. Titles
// without genres yield an empty list, not an error.
func (s *Service) ForMedia(ctx context.Context, excludeID int64, genres []string) ([]anilist.Media, error) {
	if len(genres) == 0 {
		return nil, nil
	}
	seeds := genres
	if len(seeds) > maxSeedGenres {
		seeds = seeds[:maxSeedGenres]
	}

	page, err := s.browser.Browse(ctx, anilist.BrowseOptions{
		Genres:  seeds,
		PerPage: browsePerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("browse catalog: %w", err)
	}

	results := make([]anilist.Media, 0, maxResults)
	for _, media := range page {
		if media.ID == excludeID {
			continue
		}
		results = append(results, media)
		if len(results) == maxResults {
			break
		}
	}

	s.logger.Debug("recommendations resolved",
		logging.Int("candidates", len(page)),
		logging.Int("returned", len(results)))
	return results, nil
}
