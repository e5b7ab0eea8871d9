package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_SetGet(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, kv.Set("k", payload{Name: "x", Count: 3}))

	var out payload
	found, err := kv.Get("k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "x", Count: 3}, out)

	found, err = kv.Get("missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("theme", "dark"))

	reopened, err := NewFileKV(path)
	require.NoError(t, err)

	var theme string
	found, err := reopened.Get("theme", &theme)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", theme)
}

func TestFileKV_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("k", 1))
	require.NoError(t, kv.Delete("k"))

	reopened, err := NewFileKV(path)
	require.NoError(t, err)

	var v int
	found, err := reopened.Get("k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}
