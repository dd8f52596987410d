package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "python", cfg.Runner.Interpreter)
	assert.Zero(t, cfg.Runner.Timeout)
	assert.Equal(t, 4, cfg.Editor.TabSize)
	assert.True(t, cfg.Editor.UseSpaces)
	assert.Equal(t, []string{".py"}, cfg.Editor.FileTypes)
	assert.Equal(t, "ctrl+s", cfg.Key("save"))
	assert.Equal(t, "f5", cfg.Key("run"))
	assert.Equal(t, "", cfg.Key("nope"))
}

func TestLoadFromMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Runner.Interpreter)
	assert.NotEmpty(t, cfg.Logging.FilePath)
}

func TestLoadFromOverrides(t *testing.T) {
	path := writeConfig(t, `
theme: dark
runner:
  interpreter: python3
  timeout: 30s
editor:
  tab_size: 2
  use_spaces: false
  max_history: 500
  file_types: [py, ".pyw"]
keybindings:
  run: ctrl+r
logging:
  level: DEBUG
  file_path: /tmp/pyedit-test.log
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "python3", cfg.Runner.Interpreter)
	assert.Equal(t, 30*time.Second, cfg.Runner.Timeout)
	assert.Equal(t, 2, cfg.Editor.TabSize)
	assert.False(t, cfg.Editor.UseSpaces)
	assert.Equal(t, 500, cfg.Editor.MaxHistory)
	assert.Equal(t, []string{".py", ".pyw"}, cfg.Editor.FileTypes)
	assert.Equal(t, "ctrl+r", cfg.Key("run"))
	// незаданные привязки берутся по умолчанию
	assert.Equal(t, "ctrl+s", cfg.Key("save"))
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/pyedit-test.log", cfg.Logging.FilePath)
}

func TestLoadFromParseErrorFallsBack(t *testing.T) {
	path := writeConfig(t, "theme: [unclosed")
	cfg, err := LoadFrom(path)
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "ctrl+q", cfg.Key("quit"))
}

func TestValidateNormalises(t *testing.T) {
	cfg := &Config{
		Theme:   "solarized",
		Runner:  RunnerConfig{Interpreter: "  ", Timeout: -time.Second},
		Editor:  EditorConfig{TabSize: 40, MaxHistory: -1, FileTypes: []string{"", " txt "}},
		Logging: LoggingConfig{Level: "verbose"},
	}
	cfg.Validate()

	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "python", cfg.Runner.Interpreter)
	assert.Zero(t, cfg.Runner.Timeout)
	assert.Equal(t, 4, cfg.Editor.TabSize)
	assert.Zero(t, cfg.Editor.MaxHistory)
	assert.Equal(t, []string{".txt"}, cfg.Editor.FileTypes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestPathsFollowXDG(t *testing.T) {
	cfgHome := t.TempDir()
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfgHome, "pyedit", "config.yaml"), path)
	assert.Equal(t, filepath.Join(cacheHome, "pyedit", "pyedit.log"), defaultLogPath())
}

func TestLoadUsesXDGConfig(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(cfgHome, "pyedit"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgHome, "pyedit", "config.yaml"), []byte("theme: dark\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
}
