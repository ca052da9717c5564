package analyzer

import (
	"errors"
	"fmt"
)

// ErrInsufficientPopulation is returned when there are no non-skipped tests
// to compute a passing rate over.
var ErrInsufficientPopulation = errors.New("insufficient test population")

// PassingRate returns the percentage of non-skipped tests that are not
// listed as failing, truncated to an integer.
func (c Counts) PassingRate() (int, error) {
	delta := c.Whole - c.Skip
	if delta <= 0 {
		return 0, fmt.Errorf("%w: %d tests, %d skipped", ErrInsufficientPopulation, c.Whole, c.Skip)
	}
	return 100 - c.NonSkip*100/delta, nil
}

// PassingRate returns the snapshot's passing rate.
func (s *Snapshot) PassingRate() (int, error) {
	return s.Counts().PassingRate()
}
