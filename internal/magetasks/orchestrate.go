package magetasks

import "fmt"

// RunAll builds the binary, runs the tests and smoke-tests the CLI.
func RunAll() error {
	PrintH1Header("lta Build")
	steps := []struct {
		name string
		run  func() error
	}{
		{"Build", BuildAll},
		{"Tests", TestAll},
		{"Smoke", Smoke},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	PrintSuccess("All steps passed")
	return nil
}
