package profile

import "time"

// HistoryLimit bounds the history log; inserting beyond it evicts the
// oldest entry.
const HistoryLimit = 200

// HistoryItem is the persisted summary of one successful scan. Items
// are never mutated after creation and leave the log only through the
// bounding policy.
type HistoryItem struct {
	ID        string    `json:"id"`
	AnilistID int64     `json:"anilistId"`
	Title     string    `json:"title"`
	CoverURL  string    `json:"coverUrl"`
	Timestamp time.Time `json:"timestamp"`
	Tags      []string  `json:"tags"`
	Synopsis  string    `json:"synopsis"`
	Genres    []string  `json:"genres"`
}

// UserProfile is the singleton engagement record. Level is a pure
// function of XP and is recomputed on every read and write.
type UserProfile struct {
	XP                int    `json:"xp"`
	Level             int    `json:"level"`
	CurrentStreak     int    `json:"currentStreak"`
	LastScanTimestamp string `json:"lastScanTimestamp"`
}

// DefaultProfile returns the profile used before any scan is recorded.
func DefaultProfile() UserProfile {
	return UserProfile{XP: 0, Level: 1, CurrentStreak: 0, LastScanTimestamp: ""}
}

// ProfileUpdate carries partial profile fields for UpdateProfile. Nil
// fields keep their stored value. Level is absent on purpose: it is
// derived from XP and cannot be set directly.
type ProfileUpdate struct {
	XP                *int
	CurrentStreak     *int
	LastScanTimestamp *string
}

// XPResult reports the outcome of an AddXP call.
type XPResult struct {
	LeveledUp bool
	NewLevel  int
}

// LevelForXP maps accumulated experience to a level number.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/100 + 1
}

// XPForNextLevel returns the XP total required to leave the given level.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}
