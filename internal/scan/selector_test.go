package scan_test

import (
	"errors"
	"testing"

	"animelens/internal/scan"
	"animelens/internal/trace"
)

func TestSelectBestEmpty(t *testing.T) {
	_, err := scan.SelectBest(nil)
	if !errors.Is(err, scan.ErrNoMatches) {
		t.Fatalf("expected ErrNoMatches, got %v", err)
	}
}

func TestSelectBestSingle(t *testing.T) {
	only := trace.Match{AnilistID: 7, Similarity: 0.42}
	best, err := scan.SelectBest([]trace.Match{only})
	if err != nil {
		t.Fatalf("SelectBest returned error: %v", err)
	}
	if best != only {
		t.Fatalf("expected the only candidate, got %#v", best)
	}
}

func TestSelectBestPicksHighestSimilarity(t *testing.T) {
	candidates := []trace.Match{
		{AnilistID: 1, Similarity: 0.81},
		{AnilistID: 2, Similarity: 0.96},
		{AnilistID: 3, Similarity: 0.88},
	}
	best, err := scan.SelectBest(candidates)
	if err != nil {
		t.Fatalf("SelectBest returned error: %v", err)
	}
	if best.AnilistID != 2 {
		t.Fatalf("expected candidate 2, got %d", best.AnilistID)
	}
}

func TestSelectBestTieKeepsEarliest(t *testing.T) {
	candidates := []trace.Match{
		{AnilistID: 1, Similarity: 0.90},
		{AnilistID: 2, Similarity: 0.95},
		{AnilistID: 3, Similarity: 0.95},
	}
	best, err := scan.SelectBest(candidates)
	if err != nil {
		t.Fatalf("SelectBest returned error: %v", err)
	}
	if best.AnilistID != 2 {
		t.Fatalf("tie should keep the earliest candidate, got %d", best.AnilistID)
	}
}
