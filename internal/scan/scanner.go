package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"animelens/internal/anilist"
	"animelens/internal/logging"
	"animelens/internal/profile"
	"animelens/internal/trace"
)

// Notifier receives the level-up event raised by a successful scan.
type Notifier interface {
	NotifyLevelUp(ctx context.Context, level int) error
}

// Outcome wraps a scan result with the engagement side effects that
// were recorded for it.
type Outcome struct {
	Result   Result
	Recorded bool
	XP       profile.XPResult
}

// Scanner runs the scan pipeline end to end. All collaborators are
// injected; the zero clock defaults to time.Now.
type Scanner struct {
	search    trace.Searcher
	catalog   anilist.Resolver
	profiles  *profile.Store
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
	xpPerScan int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithNotifier wires a notification sink for level-up events.
func WithNotifier(notifier Notifier) ScannerOption {
	return func(s *Scanner) {
		s.notifier = notifier
	}
}

// WithLogger sets the scanner logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logging.NewComponentLogger(logger, "scan")
	}
}

// WithClock overrides the clock used to stamp results.
func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithXPPerScan overrides the XP awarded per recorded scan.
func WithXPPerScan(amount int) ScannerOption {
	return func(s *Scanner) {
		if amount >= 0 {
			s.xpPerScan = amount
		}
	}
}

// NewScanner builds a scanner over the given collaborators.
func NewScanner(search trace.Searcher, catalog anilist.Resolver, profiles *profile.Store, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		search:    search,
		catalog:   catalog,
		profiles:  profiles,
		logger:    logging.NewNop(),
		now:       time.Now,
		xpPerScan: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanURL identifies the scene shown at the given image URL.
func (s *Scanner) ScanURL(ctx context.Context, imageURL string) (*Outcome, error) {
	resp, err := s.search.SearchURL(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("search image url: %w", err)
	}
	return s.resolve(ctx, resp)
}

// ScanFile identifies the scene shown in the given local image file.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*Outcome, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	resp, err := s.search.SearchImage(ctx, filepath.Base(path), file)
	if err != nil {
		return nil, fmt.Errorf("search image upload: %w", err)
	}
	return s.resolve(ctx, resp)
}

// resolve turns a search response into a recorded outcome: best-match
// selection, catalog reconciliation, then history and XP bookkeeping.
// No state is written when the scan fails before producing a result.
func (s *Scanner) resolve(ctx context.Context, resp *trace.Response) (*Outcome, error) {
	best, err := SelectBest(resp.Result)
	if err != nil {
		return nil, err
	}

	media, err := s.catalog.Media(ctx, best.AnilistID)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog metadata: %w", err)
	}
	if media == nil {
		s.logger.Info("catalog entry missing, producing degraded result",
			logging.Int64("anilist_id", best.AnilistID),
			logging.Float64("similarity", best.Similarity))
	}

	result, err := Assemble(best, media, s.now())
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Result: result}
	if media == nil {
		return outcome, nil
	}

	item, err := result.HistoryItem()
	if err != nil {
		s.logger.Warn("history projection failed", logging.Error(err))
		return outcome, nil
	}

	s.profiles.AppendHistory(ctx, item)
	outcome.XP = s.profiles.AddXP(ctx, s.xpPerScan)
	stamp := result.Timestamp.UTC().Format(time.RFC3339)
	s.profiles.UpdateProfile(ctx, profile.ProfileUpdate{LastScanTimestamp: &stamp})
	outcome.Recorded = true

	if outcome.XP.LeveledUp && s.notifier != nil {
		if err := s.notifier.NotifyLevelUp(ctx, outcome.XP.NewLevel); err != nil {
			s.logger.Warn("level-up notification failed", logging.Error(err))
		}
	}

	s.logger.Info("scan recorded",
		logging.Int64("anilist_id", media.ID),
		logging.String("title", media.Title.Romaji),
		logging.Float64("similarity", best.Similarity),
		logging.Bool("leveled_up", outcome.XP.LeveledUp),
		logging.Int("level", outcome.XP.NewLevel))
	return outcome, nil
}
