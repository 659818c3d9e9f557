package scan_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"animelens/internal/anilist"
	"animelens/internal/profile"
	"animelens/internal/scan"
	"animelens/internal/trace"
)

type fakeSearcher struct {
	response *trace.Response
	err      error
}

func (f *fakeSearcher) SearchURL(ctx context.Context, imageURL string) (*trace.Response, error) {
	return f.response, f.err
}

func (f *fakeSearcher) SearchImage(ctx context.Context, filename string, image io.Reader) (*trace.Response, error) {
	return f.response, f.err
}

type fakeResolver struct {
	media map[int64]*anilist.Media
	err   error
}

func (f *fakeResolver) Media(ctx context.Context, id int64) (*anilist.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.media[id], nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	levels []int
}

func (n *recordingNotifier) NotifyLevelUp(ctx context.Context, level int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	return nil
}

type memoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string][]byte)}
}

func (m *memoryKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func newTestStore() *profile.Store {
	return profile.NewStore(newMemoryKV(), nil)
}

func TestScanRecordsHistoryAndXP(t *testing.T) {
	searcher := &fakeSearcher{response: &trace.Response{Result: []trace.Match{
		{AnilistID: 1, Similarity: 0.80},
		{AnilistID: 21, Similarity: 0.97, Filename: "One Piece - 1015.mkv"},
	}}}
	resolver := &fakeResolver{media: map[int64]*anilist.Media{
		21: {ID: 21, Title: anilist.Title{Romaji: "One Piece"}, Genres: []string{"Action"}},
	}}
	store := newTestStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	scanner := scan.NewScanner(searcher, resolver, store,
		scan.WithClock(func() time.Time { return at }),
		scan.WithXPPerScan(10),
	)

	outcome, err := scanner.ScanURL(context.Background(), "https://example.com/a.png")
	if err != nil {
		t.Fatalf("ScanURL returned error: %v", err)
	}
	if !outcome.Recorded {
		t.Fatal("expected scan to be recorded")
	}
	if outcome.Result.Match.AnilistID != 21 {
		t.Fatalf("expected best candidate 21, got %d", outcome.Result.Match.AnilistID)
	}

	history := store.History(context.Background())
	if len(history) != 1 {
		t.Fatalf("expected one history item, got %d", len(history))
	}
	if history[0].Title != "One Piece" || !history[0].Timestamp.Equal(at) {
		t.Fatalf("unexpected history item: %#v", history[0])
	}

	user := store.Profile(context.Background())
	if user.XP != 10 || user.Level != 1 {
		t.Fatalf("expected 10 XP at level 1, got %#v", user)
	}
	if user.LastScanTimestamp != at.Format(time.RFC3339) {
		t.Fatalf("expected last scan timestamp %q, got %q", at.Format(time.RFC3339), user.LastScanTimestamp)
	}
}

func TestScanNoMatches(t *testing.T) {
	searcher := &fakeSearcher{response: &trace.Response{}}
	scanner := scan.NewScanner(searcher, &fakeResolver{}, newTestStore())

	_, err := scanner.ScanURL(context.Background(), "https://example.com/a.png")
	if !errors.Is(err, scan.ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestScanDegradedWithoutCatalogEntry(t *testing.T) {
	searcher := &fakeSearcher{response: &trace.Response{Result: []trace.Match{
		{AnilistID: 404, Similarity: 0.91, Filename: "obscure_ova_02.mkv"},
	}}}
	store := newTestStore()
	scanner := scan.NewScanner(searcher, &fakeResolver{}, store)

	outcome, err := scanner.ScanURL(context.Background(), "https://example.com/a.png")
	if err != nil {
		t.Fatalf("ScanURL returned error: %v", err)
	}
	if outcome.Recorded {
		t.Fatal("degraded result must not be recorded")
	}
	if outcome.Result.Media != nil {
		t.Fatal("expected nil media")
	}
	if len(store.History(context.Background())) != 0 {
		t.Fatal("degraded scan must not write history")
	}
	if store.Profile(context.Background()).XP != 0 {
		t.Fatal("degraded scan must not award XP")
	}
}

func TestScanCatalogFailureWritesNothing(t *testing.T) {
	searcher := &fakeSearcher{response: &trace.Response{Result: []trace.Match{
		{AnilistID: 21, Similarity: 0.97},
	}}}
	resolver := &fakeResolver{err: errors.New("anilist unreachable")}
	store := newTestStore()
	scanner := scan.NewScanner(searcher, resolver, store)

	if _, err := scanner.ScanURL(context.Background(), "https://example.com/a.png"); err == nil {
		t.Fatal("expected catalog failure to fail the scan")
	}
	if len(store.History(context.Background())) != 0 {
		t.Fatal("failed scan must not write history")
	}
	if store.Profile(context.Background()).XP != 0 {
		t.Fatal("failed scan must not award XP")
	}
}

func TestScanNotifiesOnLevelUp(t *testing.T) {
	searcher := &fakeSearcher{response: &trace.Response{Result: []trace.Match{
		{AnilistID: 21, Similarity: 0.97},
	}}}
	resolver := &fakeResolver{media: map[int64]*anilist.Media{
		21: {ID: 21, Title: anilist.Title{Romaji: "One Piece"}},
	}}
	store := newTestStore()
	ninetyFive := 95
	store.UpdateProfile(context.Background(), profile.ProfileUpdate{XP: &ninetyFive})

	notifier := &recordingNotifier{}
	scanner := scan.NewScanner(searcher, resolver, store,
		scan.WithNotifier(notifier),
		scan.WithXPPerScan(10),
	)

	outcome, err := scanner.ScanURL(context.Background(), "https://example.com/a.png")
	if err != nil {
		t.Fatalf("ScanURL returned error: %v", err)
	}
	if !outcome.XP.LeveledUp || outcome.XP.NewLevel != 2 {
		t.Fatalf("expected level up to 2, got %#v", outcome.XP)
	}
	if len(notifier.levels) != 1 || notifier.levels[0] != 2 {
		t.Fatalf("expected one level-up notification for level 2, got %v", notifier.levels)
	}
}

func TestScanFileMissing(t *testing.T) {
	scanner := scan.NewScanner(&fakeSearcher{}, &fakeResolver{}, newTestStore())
	if _, err := scanner.ScanFile(context.Background(), "/nonexistent/frame.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
