package magetasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BuildAll builds the lta binary with version metadata stamped in.
func BuildAll() error {
	version, err := output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil || version == "" {
		version = "dev"
	}
	commit, err := output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "unknown"
	}
	flags := ldflags(version, commit, time.Now().UTC())

	if err := Run("Build", "go", "build", "-ldflags", flags, "-o", BinPath, CmdPath); err != nil {
		return err
	}
	PrintSuccess("Built " + BinPath)
	return nil
}

// ldflags returns the linker flags that stamp internal/version.
func ldflags(version, commit string, built time.Time) string {
	vars := []struct{ name, value string }{
		{"Version", version},
		{"CommitHash", commit},
		{"BuildDate", built.Format(time.RFC3339)},
	}
	parts := []string{"-s", "-w"}
	for _, v := range vars {
		parts = append(parts, fmt.Sprintf("-X '%s.%s=%s'", versionPkg(), v.name, v.value))
	}
	return strings.Join(parts, " ")
}

// Clean removes the binary directory and the coverage profile.
func Clean() error {
	PrintH2Header("Clean")
	for _, p := range []string{filepath.Dir(BinPath), CoverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	PrintSuccess("Removed build artifacts")
	return nil
}
