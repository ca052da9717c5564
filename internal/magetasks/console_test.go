package magetasks

import (
	"bytes"
	"strings"
	"testing"
)

// captureOutput redirects task output for the duration of fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	saved := out
	out = &buf
	t.Cleanup(func() { out = saved })
	fn()
	return buf.String()
}

func TestPrintH1Header(t *testing.T) {
	got := captureOutput(t, func() { PrintH1Header("lta Build") })
	if !strings.Contains(got, "lta Build") {
		t.Errorf("header missing title: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("=", headerWidth)) {
		t.Errorf("header missing rule: %q", got)
	}
}

func TestPrintH2Header(t *testing.T) {
	got := captureOutput(t, func() { PrintH2Header("Smoke") })
	if !strings.Contains(got, "=== Smoke ===") {
		t.Errorf("PrintH2Header = %q", got)
	}
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name  string
		print func(string)
		mark  string
	}{
		{"success", PrintSuccess, "✓"},
		{"warning", PrintWarning, "!"},
		{"error", PrintError, "✗"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := captureOutput(t, func() { tt.print("stored snapshot 2011-08-19-14") })
			if !strings.Contains(got, tt.mark+" stored snapshot 2011-08-19-14") {
				t.Errorf("got %q, want mark %q and message", got, tt.mark)
			}
			if !strings.HasSuffix(got, "\n") {
				t.Errorf("status line should end with a newline: %q", got)
			}
		})
	}
}
