package scan

import "errors"

var (
	// ErrNoMatches reports that the search service returned no
	// candidates. Recoverable: the user should try a different scene.
	ErrNoMatches = errors.New("no matches found")

	// ErrMediaMismatch reports catalog metadata wired to the wrong
	// candidate match.
	ErrMediaMismatch = errors.New("catalog entry does not match selected candidate")

	// ErrNoCatalog reports an attempt to derive a history item from a
	// result without catalog metadata.
	ErrNoCatalog = errors.New("result has no catalog entry")
)
