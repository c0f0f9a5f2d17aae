package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "docs", cfg.Site.Dir)
	assert.Equal(t, "dataframe", cfg.Site.TableMarker)
	assert.Equal(t, "main", cfg.Repo.Branch)
	assert.Equal(t, "history.json", cfg.Repo.HistoryPath)
	assert.Equal(t, 5, cfg.GitHub.RateLimit)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Export.Workers)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		// viper reports an explicit missing file; defaults still apply when
		// no path is forced.
		cfg, err = Load("")
	}
	require.NoError(t, err)
	assert.Equal(t, "dataframe", cfg.Site.TableMarker)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
site:
  dir: public
  table_marker: stats-table
repo:
  slug: ddblabs/statistics
  branch: master
  history_path: data/history.json
github:
  rate_limit: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "public", cfg.Site.Dir)
	assert.Equal(t, "stats-table", cfg.Site.TableMarker)
	assert.Equal(t, "ddblabs/statistics", cfg.Repo.Slug)
	assert.Equal(t, "master", cfg.Repo.Branch)
	assert.Equal(t, "data/history.json", cfg.Repo.HistoryPath)
	assert.Equal(t, 2, cfg.GitHub.RateLimit)

	// Unset values keep their defaults.
	assert.Equal(t, 4, cfg.Export.Workers)
}

func TestEnvOverridesToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHub.Token)
	assert.Equal(t, "ghp_test123", cfg.ResolveToken())
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", MaskToken(""))
	assert.Equal(t, "***", MaskToken("short"))
	assert.Equal(t, "ghp_abc...wxyz", MaskToken("ghp_abcdefghijklmnopwxyz"))
}
