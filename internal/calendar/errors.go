package calendar

import "errors"

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrInsufficientData is returned when the provider does not supply
	// enough conjunctions around an instant to resolve a month.
	ErrInsufficientData = errors.New("insufficient astronomical data")

	// ErrAnchorNotFound is returned when a descendant equinox (or another
	// solar landmark) cannot be located.
	ErrAnchorNotFound = errors.New("year anchor not found")

	// ErrPatternNotRecognized is returned when the landmark conjunctions of a
	// leap year match none of the known intercalation patterns.
	ErrPatternNotRecognized = errors.New("leap month pattern not recognized")

	// ErrInvalidRoster is returned when a year enumerates to something other
	// than 13 or 14 conjunctions.
	ErrInvalidRoster = errors.New("invalid conjunction roster")

	// ErrInvalidInput is returned for civil date/time fields out of range.
	ErrInvalidInput = errors.New("invalid civil date/time")
)

// IsInsufficientData checks if an error is an insufficient data error.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsAnchorNotFound checks if an error is an anchor-not-found error.
func IsAnchorNotFound(err error) bool {
	return errors.Is(err, ErrAnchorNotFound)
}

// IsPatternNotRecognized checks if an error is an unrecognized pattern error.
func IsPatternNotRecognized(err error) bool {
	return errors.Is(err, ErrPatternNotRecognized)
}
