package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Search, cfg.Search)
	assert.Equal(t, "restart", cfg.Streak.BackdatePolicy)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrency)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoad_ReadsFileAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
data_dir: /tmp/daylog-test
owner_id: alice
search:
  max_todo_results: 500
  max_note_results: 5
streak:
  backdate_policy: preserve
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/daylog-test", cfg.DataDir)
	assert.Equal(t, "alice", cfg.OwnerID)
	assert.Equal(t, MaxTodoResults, cfg.Search.MaxTodoResults, "clamped to the hard cap")
	assert.Equal(t, 5, cfg.Search.MaxNoteResults)
	assert.Equal(t, "preserve", cfg.Streak.BackdatePolicy)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrency, "unset keys keep defaults")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DAYLOG_OWNER_ID", "from-env")
	t.Setenv("DAYLOG_BATCH_MAX_CONCURRENCY", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OwnerID)
	assert.Equal(t, 3, cfg.Batch.MaxConcurrency)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.OwnerID = "bob"
	cfg.Search.MaxNoteResults = 7
	cfg.Streak.BackdatePolicy = "preserve"

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.OwnerID)
	assert.Equal(t, 7, got.Search.MaxNoteResults)
	assert.Equal(t, "preserve", got.Streak.BackdatePolicy)
}
