package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingIsEmpty(t *testing.T) {
	t.Parallel()

	m, err := Load(filepath.Join(t.TempDir(), "anno.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "anno.yaml")
	want := Map{"BUGCR1234": "owner: media team", "BUGWK5678": "upstream"}
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "anno.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	m := Map{"BUGCR1": "known"}
	out, added := m.WithDefaults([]string{"BUGCR1", "BUGCR2"}, "Needs investigation!")

	assert.True(t, added)
	assert.Equal(t, Map{"BUGCR1": "known", "BUGCR2": "Needs investigation!"}, out)
	assert.Len(t, m, 1, "receiver must not be modified")

	_, added = out.WithDefaults([]string{"BUGCR2"}, "x")
	assert.False(t, added)
}
