package scan

import "animelens/internal/trace"

// SelectBest picks the candidate with the highest similarity in a
// single linear pass. A later candidate wins only on strictly greater
// similarity, so ties keep the earliest-seen candidate and the
// selection is deterministic for a given input order. An empty
// candidate set returns ErrNoMatches.
func SelectBest(candidates []trace.Match) (trace.Match, error) {
	if len(candidates) == 0 {
		return trace.Match{}, ErrNoMatches
	}
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.Similarity > best.Similarity {
			best = candidate
		}
	}
	return best, nil
}
