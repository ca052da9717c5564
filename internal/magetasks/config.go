package magetasks

import (
	"os"
	"path/filepath"
)

var (
	// ModulePath is the Go module path.
	ModulePath = "github.com/dkoosis/lta"

	// CmdPath is the main package of the lta binary.
	CmdPath = "./cmd/lta"

	// BinPath is where BuildAll writes the binary.
	BinPath = "./bin/lta"

	// CoverProfile is the coverage profile written by TestCoverage.
	CoverProfile = "coverage.out"

	// ProjectRoot is the working directory mage was started in.
	ProjectRoot string
)

// versionPkg is the package whose variables are stamped at link time.
func versionPkg() string {
	return ModulePath + "/internal/version"
}

// Initialize records the project root and creates the binary's directory.
// Call it from the magefile's init.
func Initialize() error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	ProjectRoot = root
	return os.MkdirAll(filepath.Join(ProjectRoot, filepath.Dir(BinPath)), 0o750)
}
