package magetasks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const headerWidth = 72

// out receives all task output.
var out io.Writer = os.Stdout

var (
	h1Style      = lipgloss.NewStyle().Bold(true).Width(headerWidth).Align(lipgloss.Center)
	h2Style      = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// PrintH1Header prints a banner for a top-level target.
func PrintH1Header(title string) {
	rule := strings.Repeat("=", headerWidth)
	fmt.Fprintf(out, "\n%s\n%s\n%s\n\n", rule, h1Style.Render(title), rule)
}

// PrintH2Header prints the header of one step.
func PrintH2Header(title string) {
	fmt.Fprintf(out, "\n%s\n", h2Style.Render("=== "+title+" ==="))
}

func PrintSuccess(msg string) { fmt.Fprintln(out, successStyle.Render("✓ "+msg)) }

func PrintWarning(msg string) { fmt.Fprintln(out, warningStyle.Render("! "+msg)) }

func PrintError(msg string) { fmt.Fprintln(out, errorStyle.Render("✗ "+msg)) }
