package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8090"
news:
  source: api
  api_key: plain-key
  lang: en
  page: 2
relevance:
  limit: 7
  max_fetch_attempts: 3
cache:
  enabled: true
  ttl_seconds: 60
jobs:
  - name: "media:image_attach"
    cron: "*/5 * * * *"
    enable: true
    params:
      batch: 10
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8090", c.Server.Port)
	assert.Equal(t, "api", c.News.Source)
	assert.Equal(t, 2, c.News.Page)
	assert.Equal(t, 7, c.Relevance.Limit)
	assert.Equal(t, 3, c.Relevance.MaxFetchAttempts)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 60, c.Cache.TTLSeconds)

	require.Len(t, c.Jobs, 1)
	assert.Equal(t, "media:image_attach", c.Jobs[0].Name)
	assert.True(t, c.Jobs[0].Enable)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8090"
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Relevance.Limit)
	assert.Equal(t, 2, c.Relevance.MaxFetchAttempts)
	assert.Equal(t, 300, c.Cache.TTLSeconds)
	assert.False(t, c.Cache.Enabled)
}

func TestLoadConfigExpandsEnvRefs(t *testing.T) {
	t.Setenv("SENTINELPOST_TEST_NEWS_KEY", "from-env")

	path := writeConfig(t, `
news:
  api_key: ${SENTINELPOST_TEST_NEWS_KEY}
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.News.APIKey)
}

func TestLoadConfigMissingFileIsAnError(t *testing.T) {
	_, err := LoadConfig("no/such/config.yaml")
	require.Error(t, err)
}
