package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/layouttest"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func snapshotWith(nonskip int) *analyzer.Snapshot {
	raw := layouttest.RawMap{"plain.html": {}}
	for i := 0; i < nonskip; i++ {
		raw[string(rune('a'+i))+".html"] = layouttest.Record{Expectations: []layouttest.Expectation{
			layouttest.NewExpectation([]string{"TIMEOUT"}, nil, ""),
		}}
	}
	return analyzer.Classify(raw)
}

func TestRecordAndRecent(t *testing.T) {
	h := openTemp(t)
	base := time.Date(2011, 11, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := h.Record("media", base.Add(time.Duration(i)*time.Hour), snapshotWith(i))
		require.NoError(t, err)
	}
	_, err := h.Record("webgl", base, snapshotWith(1))
	require.NoError(t, err)

	runs, err := h.Recent("media", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.True(t, runs[0].Timestamp.Before(runs[1].Timestamp), "runs should be oldest first")
	assert.Equal(t, 2, runs[0].Counts.Whole)
	assert.Equal(t, 50, runs[0].PassingRate)
	assert.Equal(t, 3, runs[1].Counts.Whole)
	assert.Equal(t, 34, runs[1].PassingRate)
	assert.NotEmpty(t, runs[1].ID)
}

func TestRecord_NoRate(t *testing.T) {
	h := openTemp(t)

	run, err := h.Record("media", time.Now(), analyzer.NewSnapshot())
	require.NoError(t, err)
	assert.False(t, run.HasRate)

	runs, err := h.Recent("media", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].HasRate)
}
