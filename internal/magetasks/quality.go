package magetasks

import "fmt"

// QualityCheck lints, tests and builds. Lint findings are reported but do
// not fail the check.
func QualityCheck() error {
	PrintH2Header("Quality Checks")

	if err := LintAll(); err != nil {
		PrintWarning(fmt.Sprintf("Linting issues found: %v", err))
	}
	if err := TestRace(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	if err := BuildAll(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := Smoke(); err != nil {
		return fmt.Errorf("smoke test failed: %w", err)
	}

	PrintSuccess("Quality checks complete")
	return nil
}
