package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"animelens/internal/config"
	"animelens/internal/logging"
)

const (
	keyHistory = "history"
	keyProfile = "profile"
)

// Store manages the history log and user profile over a KV layer.
// All read-modify-write operations serialize on an internal mutex.
type Store struct {
	kv     KV
	logger *slog.Logger
	mu     sync.Mutex

	lock *flock.Flock
	db   *sqliteKV
	path string
}

// NewStore builds a store over an arbitrary KV implementation. The
// logger receives swallowed storage errors; nil means a no-op logger.
func NewStore(kv KV, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logging.NewComponentLogger(logger, "profile"),
	}
}

// Open initializes the SQLite-backed store under the configured data
// directory. A file lock beside the database keeps the store
// single-writer across processes; a second process fails to open it.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "animelens.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire store lock: %w", err)
	}
	if !ok {
		return nil, errors.New("profile store is in use by another animelens process")
	}

	kv, err := openSQLiteKV(dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	store := NewStore(kv, logger)
	store.lock = lock
	store.db = kv
	store.path = dbPath
	return store, nil
}

// Path returns the database location for the SQLite-backed store.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection and the process lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
		s.lock = nil
	}
	return err
}

// AppendHistory prepends item to the history log and trims the log to
// HistoryLimit entries. Best-effort: storage failures are logged and
// the scan flow continues.
func (s *Store) AppendHistory(ctx context.Context, item HistoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.readHistory(ctx)
	if err != nil {
		s.logger.Warn("append history: read failed", logging.Error(err))
		return
	}

	log = append([]HistoryItem{item}, log...)
	if len(log) > HistoryLimit {
		log = log[:HistoryLimit]
	}

	if err := s.writeValue(ctx, keyHistory, log); err != nil {
		s.logger.Warn("append history: write failed", logging.Error(err))
	}
}

// History returns the persisted log, newest first. Missing state or a
// storage error yields an empty log; history never blocks a scan.
func (s *Store) History(ctx context.Context) []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.readHistory(ctx)
	if err != nil {
		s.logger.Warn("read history failed", logging.Error(err))
		return nil
	}
	return log
}

// Profile returns the persisted profile, or the default profile when
// none exists or storage fails. Level is recomputed from XP so a read
// is never stale relative to the stored XP.
func (s *Store) Profile(ctx context.Context) UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(ctx)
}

// UpdateProfile merges the given fields over the stored profile,
// recomputes the level from the resulting XP, and writes the result
// back. A storage failure returns nil: no update occurred.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateProfileLocked(ctx, update)
}

// AddXP increments the profile XP by amount and reports whether the
// level increased. Negative amounts are ignored; amount zero never
// levels up.
func (s *Store) AddXP(ctx context.Context, amount int) XPResult {
	if amount < 0 {
		amount = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.profileLocked(ctx)
	oldLevel := current.Level

	newXP := current.XP + amount
	s.updateProfileLocked(ctx, ProfileUpdate{XP: &newXP})

	updated := s.profileLocked(ctx)
	return XPResult{
		LeveledUp: updated.Level > oldLevel,
		NewLevel:  updated.Level,
	}
}

func (s *Store) profileLocked(ctx context.Context) UserProfile {
	p, err := s.readProfile(ctx)
	if err != nil {
		s.logger.Warn("read profile failed", logging.Error(err))
		return DefaultProfile()
	}
	p.Level = LevelForXP(p.XP)
	return p
}

func (s *Store) updateProfileLocked(ctx context.Context, update ProfileUpdate) *UserProfile {
	p, err := s.readProfile(ctx)
	if err != nil {
		s.logger.Warn("update profile: read failed", logging.Error(err))
		return nil
	}

	if update.XP != nil {
		p.XP = *update.XP
	}
	if update.CurrentStreak != nil {
		p.CurrentStreak = *update.CurrentStreak
	}
	if update.LastScanTimestamp != nil {
		p.LastScanTimestamp = *update.LastScanTimestamp
	}
	// Recompute even when XP was untouched so a stale stored level can
	// never survive a write.
	p.Level = LevelForXP(p.XP)

	if err := s.writeValue(ctx, keyProfile, p); err != nil {
		s.logger.Warn("update profile: write failed", logging.Error(err))
		return nil
	}
	return &p
}

func (s *Store) readHistory(ctx context.Context) ([]HistoryItem, error) {
	raw, ok, err := s.kv.Get(ctx, keyHistory)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var log []HistoryItem
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return log, nil
}

func (s *Store) readProfile(ctx context.Context) (UserProfile, error) {
	raw, ok, err := s.kv.Get(ctx, keyProfile)
	if err != nil {
		return UserProfile{}, err
	}
	if !ok {
		return DefaultProfile(), nil
	}
	var p UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return UserProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

func (s *Store) writeValue(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw)
}
