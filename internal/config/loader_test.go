package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{ConfigPaths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, "hlint", cfg.Analyzer.Binary)
	assert.Equal(t, "60s", cfg.Analyzer.Timeout)
	assert.Equal(t, 1, cfg.Analyzer.Workers)
	assert.Empty(t, cfg.Analyzer.Options)
	assert.False(t, cfg.Report.Inline)
	assert.False(t, cfg.Report.LegacySuggestions)
	assert.False(t, cfg.Store.Enabled)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.True(t, cfg.Observability.Logging.Enabled)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, "human", cfg.Observability.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
analyzer:
  binary: /usr/local/bin/hlint
  timeout: 90s
  workers: 4
  options:
    - name: ignore
      value: "Use fmap"
    - name: color
      value: false
git:
  repositoryDir: /repo
report:
  inline: true
  legacySuggestions: true
github:
  owner: octocat
  repo: hello
  prNumber: 42
  commitSHA: abc123
store:
  enabled: true
  path: /tmp/history.db
observability:
  logging:
    level: debug
    format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changelint.yaml"), []byte(content), 0o644))

	cfg, err := Load(LoaderOptions{ConfigPaths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/hlint", cfg.Analyzer.Binary)
	assert.Equal(t, "90s", cfg.Analyzer.Timeout)
	assert.Equal(t, 4, cfg.Analyzer.Workers)
	require.Len(t, cfg.Analyzer.Options, 2)
	assert.Equal(t, "ignore", cfg.Analyzer.Options[0].Name)
	assert.Equal(t, "Use fmap", cfg.Analyzer.Options[0].Value)
	assert.Equal(t, "color", cfg.Analyzer.Options[1].Name)
	assert.Equal(t, false, cfg.Analyzer.Options[1].Value)
	assert.Equal(t, "/repo", cfg.Git.RepositoryDir)
	assert.True(t, cfg.Report.Inline)
	assert.True(t, cfg.Report.LegacySuggestions)
	assert.Equal(t, "octocat", cfg.GitHub.Owner)
	assert.Equal(t, "hello", cfg.GitHub.Repo)
	assert.Equal(t, 42, cfg.GitHub.PRNumber)
	assert.Equal(t, "abc123", cfg.GitHub.CommitSHA)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, "/tmp/history.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changelint.yaml"), []byte("analyzer: ["), 0o644))

	_, err := Load(LoaderOptions{ConfigPaths: []string{dir}})
	assert.Error(t, err)
}

func TestLoadExpandsEnvVarsInStrings(t *testing.T) {
	t.Setenv("CHANGELINT_TEST_BIN", "/opt/hlint")
	dir := t.TempDir()
	content := `
analyzer:
  binary: ${CHANGELINT_TEST_BIN}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changelint.yaml"), []byte(content), 0o644))

	cfg, err := Load(LoaderOptions{ConfigPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "/opt/hlint", cfg.Analyzer.Binary)
}

func TestExpandEnvString(t *testing.T) {
	t.Setenv("CHANGELINT_TEST_VALUE", "resolved")

	assert.Equal(t, "resolved", expandEnvString("${CHANGELINT_TEST_VALUE}"))
	assert.Equal(t, "resolved", expandEnvString("$CHANGELINT_TEST_VALUE"))
	assert.Equal(t, "prefix-resolved", expandEnvString("prefix-${CHANGELINT_TEST_VALUE}"))
	// Unset variables keep the original text rather than expanding to "".
	assert.Equal(t, "${CHANGELINT_UNSET_VALUE}", expandEnvString("${CHANGELINT_UNSET_VALUE}"))
	assert.Equal(t, "", expandEnvString(""))
	assert.Equal(t, "plain", expandEnvString("plain"))
}

func TestLocateConfigFilePrefersEarlierPaths(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(first, "changelint.yaml"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "changelint.yaml"), []byte("{}"), 0o644))

	found := locateConfigFile("changelint", []string{first, second})
	assert.Equal(t, filepath.Join(first, "changelint.yaml"), found)
}

func TestLocateConfigFileMissing(t *testing.T) {
	assert.Equal(t, "", locateConfigFile("changelint", []string{t.TempDir()}))
}
