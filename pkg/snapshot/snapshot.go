// Package snapshot persists classified snapshots under timestamp names and
// finds the most recent one.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dkoosis/lta/pkg/analyzer"
)

// TimeLayout is the snapshot file name layout, e.g. 2011-10-23-23.
const TimeLayout = "2006-01-02-15"

// formatVersion is bumped on incompatible encoding changes.
const formatVersion = 1

var (
	// ErrNotFound is returned when a snapshot file does not exist.
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorrupt is returned when a snapshot file cannot be decoded.
	ErrCorrupt = errors.New("snapshot corrupt")
)

type envelope struct {
	Version  int                `json:"version"`
	Snapshot *analyzer.Snapshot `json:"snapshot"`
}

// Save writes snap to path, replacing any existing file.
func Save(snap *analyzer.Snapshot, path string) error {
	if snap == nil {
		snap = analyzer.NewSnapshot()
	}
	data, err := json.Marshal(envelope{Version: formatVersion, Snapshot: snap})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot stored at path.
func Load(path string) (*analyzer.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if env.Version != formatVersion || env.Snapshot == nil {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrCorrupt, path, env.Version)
	}
	s := env.Snapshot
	// Empty buckets encode as null.
	if s.Whole == nil {
		s.Whole = analyzer.Tests{}
	}
	if s.Skip == nil {
		s.Skip = analyzer.Tests{}
	}
	if s.NonSkip == nil {
		s.NonSkip = analyzer.Tests{}
	}
	return s, nil
}

// FindLatestTime returns the latest name in names that parses as a
// snapshot timestamp, exactly as it appears in names. Other names are
// ignored. ok is false when none parse. Of two names for the same hour,
// such as "2014-03-05-9" and "2014-03-05-09", the canonical one wins.
func FindLatestTime(names []string) (latest string, ok bool) {
	var best time.Time
	for _, n := range names {
		t, err := time.Parse(TimeLayout, n)
		if err != nil {
			continue
		}
		canonical := n == t.Format(TimeLayout)
		if !ok || t.After(best) || (t.Equal(best) && canonical) {
			best, latest, ok = t, n, true
		}
	}
	return latest, ok
}

// Latest is the most recent stored snapshot.
type Latest struct {
	Name     string
	Time     time.Time
	Snapshot *analyzer.Snapshot
}

// FindLatest loads the most recent snapshot in dir. ok is false, with a
// nil error, when dir is empty or missing or holds no timestamp-named file.
func FindLatest(dir string) (Latest, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Latest{}, false, nil
		}
		return Latest{}, false, fmt.Errorf("listing snapshots in %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	name, ok := FindLatestTime(names)
	if !ok {
		return Latest{}, false, nil
	}
	snap, err := Load(filepath.Join(dir, name))
	if err != nil {
		return Latest{}, false, err
	}
	t, _ := time.Parse(TimeLayout, name)
	return Latest{Name: name, Time: t, Snapshot: snap}, true, nil
}

// Store is a directory of timestamp-named snapshots.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save writes snap under the name for t and returns that name.
func (s *Store) Save(snap *analyzer.Snapshot, t time.Time) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}
	name := t.Format(TimeLayout)
	if err := Save(snap, filepath.Join(s.Dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// Load reads the snapshot stored under name.
func (s *Store) Load(name string) (*analyzer.Snapshot, error) {
	return Load(filepath.Join(s.Dir, name))
}

// Latest returns the most recent snapshot in the store.
func (s *Store) Latest() (Latest, bool, error) {
	return FindLatest(s.Dir)
}
