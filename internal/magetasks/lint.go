package magetasks

import (
	"errors"
	"fmt"
	"strings"
)

// golangciDisabled are linters whose findings do not fit this codebase.
const golangciDisabled = "exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// linter is one lint step. Optional linters are skipped with a warning
// when their binary is not installed.
type linter struct {
	title    string
	args     []string
	optional bool
	install  string
}

var (
	vetLinter         = linter{title: "Go Vet", args: []string{"go", "vet", "./..."}}
	staticcheckLinter = linter{
		title:    "Staticcheck",
		args:     []string{"staticcheck", "./..."},
		optional: true,
		install:  "honnef.co/go/tools/cmd/staticcheck@latest",
	}
	golangciLinter = linter{
		title:    "Golangci-lint",
		args:     []string{"golangci-lint", "run", "--disable=" + golangciDisabled, "--timeout=5m", "./..."},
		optional: true,
		install:  "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	}
)

func (l linter) run() error {
	err := Run(l.title, l.args[0], l.args[1:]...)
	switch {
	case err == nil:
		return nil
	case IsCommandNotFound(err) && l.optional:
		PrintWarning(fmt.Sprintf("%s not installed (go install %s)", l.title, l.install))
		return err
	default:
		return fmt.Errorf("%s: %w", strings.ToLower(l.title), err)
	}
}

// LintAll runs the format check and every linter, collecting failures.
// Missing optional linters do not fail the run.
func LintAll() error {
	var errs []error
	if err := LintFormat(); err != nil {
		errs = append(errs, err)
	}
	for _, l := range []linter{vetLinter, staticcheckLinter, golangciLinter} {
		if err := l.run(); err != nil && !(l.optional && IsCommandNotFound(err)) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	PrintSuccess("All linters passed")
	return nil
}

// LintFormat fails when gofmt would change any file.
func LintFormat() error {
	PrintH2Header("Go Format")
	files, err := output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if unformatted := unformattedFiles(files); len(unformatted) > 0 {
		for _, f := range unformatted {
			PrintError("not formatted: " + f)
		}
		return fmt.Errorf("%d files need gofmt", len(unformatted))
	}
	return nil
}

// unformattedFiles parses `gofmt -l` output. Paths under directories
// starting with an underscore are ignored, as the go tool does.
func unformattedFiles(list string) []string {
	var files []string
	for _, f := range strings.Split(list, "\n") {
		if f == "" || strings.HasPrefix(f, "_") {
			continue
		}
		files = append(files, f)
	}
	return files
}

func LintVet() error { return vetLinter.run() }

func LintStaticcheck() error { return staticcheckLinter.run() }

func LintGolangci() error { return golangciLinter.run() }

// LintGolangciFix runs golangci-lint with auto-fixes applied.
func LintGolangciFix() error {
	fix := golangciLinter
	fix.title = "Golangci-lint Fix"
	fix.args = append([]string{"golangci-lint", "run", "--fix"}, golangciLinter.args[2:]...)
	return fix.run()
}
