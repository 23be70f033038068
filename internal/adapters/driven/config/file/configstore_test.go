package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("panelapp.server_url", "http://localhost:8080"))

	// The TOML file exists and carries the value.
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://localhost:8080")
}

func TestConfigStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("reconcile.retry_attempts", 5))
	require.NoError(t, store.Set("scheduler.enabled", false))
	require.NoError(t, store.Set("storage.data_dir", "/var/lib/panels"))

	// A fresh store over the same directory sees the persisted values.
	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, reopened.GetInt("reconcile.retry_attempts"))
	assert.Equal(t, "/var/lib/panels", reopened.GetString("storage.data_dir"))

	val, ok := reopened.Get("scheduler.enabled")
	require.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_TypedGettersOnMissingKeys(t *testing.T) {
	store := newTestConfigStore(t)

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_TypedGettersOnWrongTypes(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("key", 42))

	assert.Equal(t, "", store.GetString("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[panelapp]
server_url = "https://panelapp.genomicsengland.co.uk/api/v1"

[scheduler.catalog_refresh]
enabled = true
interval = "720h"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://panelapp.genomicsengland.co.uk/api/v1",
		store.GetString("panelapp.server_url"))
	assert.True(t, store.GetBool("scheduler.catalog_refresh.enabled"))
	assert.Equal(t, "720h", store.GetString("scheduler.catalog_refresh.interval"))
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"top": "value",
		"a": map[string]any{
			"b": int64(1),
			"c": map[string]any{
				"d": true,
			},
		},
	}, "")

	assert.Equal(t, map[string]any{
		"top":   "value",
		"a.b":   int64(1),
		"a.c.d": true,
	}, flat)
}
