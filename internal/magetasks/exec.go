package magetasks

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// Run runs a command under a step header with its output attached to the
// console. A missing binary is returned as is so callers can treat
// optional tools with IsCommandNotFound.
func Run(title, name string, args ...string) error {
	PrintH2Header(title)
	cmd := exec.Command(name, args...)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil && !IsCommandNotFound(err) {
		PrintError(title + " failed")
	}
	return err
}

// output runs a command and returns its trimmed stdout.
func output(name string, args ...string) (string, error) {
	b, err := exec.Command(name, args...).Output()
	return strings.TrimSpace(string(b)), err
}

// IsCommandNotFound reports whether err means the executable is missing.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "executable file not found") ||
		strings.Contains(msg, "no such file or directory")
}
