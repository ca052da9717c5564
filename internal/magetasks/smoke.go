package magetasks

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// smokeInput is a minimal test info map covering each bucket.
const smokeInput = `{
	"media/video-play.html": {"desc": "play", "te_info": [{"TIMEOUT": true, "Bugs": ["BUGCR1234"]}]},
	"media/video-seek.html": {"desc": "seek", "te_info": [{"SKIP": true, "Bugs": ["BUGWK5678"]}]},
	"media/audio-pause.html": {"desc": "pause"}
}`

// Smoke runs the built binary through one analyze cycle in a scratch
// directory and checks that a snapshot was stored.
func Smoke() error {
	PrintH2Header("Smoke")

	dir, err := os.MkdirTemp("", "lta-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	bin, err := filepath.Abs(BinPath)
	if err != nil {
		return err
	}
	results := filepath.Join(dir, "results")
	cmd := exec.Command(bin, "analyze",
		"--format", "llm",
		"--result-dir", results,
		"--annotations", filepath.Join(dir, "anno.yaml"),
		"--history-db", filepath.Join(dir, "history.db"),
	)
	cmd.Stdin = strings.NewReader(smokeInput)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintError("lta analyze failed")
		return err
	}

	entries, err := os.ReadDir(results)
	if err != nil {
		return fmt.Errorf("reading result dir: %w", err)
	}
	if len(entries) != 1 {
		return fmt.Errorf("expected 1 stored snapshot, found %d", len(entries))
	}
	PrintSuccess("Stored snapshot " + entries[0].Name())
	return nil
}
