package magetasks

import "os"

// TestAll runs all tests.
func TestAll() error {
	if err := Run("Tests", "go", "test", "./..."); err != nil {
		return err
	}
	PrintSuccess("All tests passed")
	return nil
}

// TestCoverage runs tests with coverage and prints the per-function summary.
func TestCoverage() error {
	if err := Run("Test Coverage", "go", "test", "-coverprofile="+CoverProfile, "./..."); err != nil {
		return err
	}
	if _, err := os.Stat(CoverProfile); err != nil {
		PrintWarning("No coverage profile written")
		return nil
	}
	_ = Run("Coverage by function", "go", "tool", "cover", "-func="+CoverProfile)
	return nil
}

// TestRace runs tests with the race detector.
func TestRace() error {
	if err := Run("Race Detector", "go", "test", "-race", "./..."); err != nil {
		return err
	}
	PrintSuccess("No race conditions detected")
	return nil
}
