package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.FatalLevel)
	os.Exit(m.Run())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.Engine.Limit)
	assert.Equal(t, 2, cfg.Engine.MinPrefix)
	assert.Equal(t, 300, cfg.Engine.RemoteTimeoutMs)
	assert.Equal(t, "localhost:6379", cfg.Remote.Addr)
	assert.Equal(t, "suggestions", cfg.Remote.Key)
	assert.Equal(t, 100, cfg.Remote.Window)
	assert.Equal(t, "*", cfg.Remote.Marker)
	assert.Equal(t, 10, cfg.Builder.PrefixSize)
	assert.Equal(t, 60, cfg.Server.MaxPrefix)
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
[engine]
limit = 8
remote_timeout_ms = 50

[remote]
addr = "cache:6380"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Engine.Limit)
	assert.Equal(t, 2, cfg.Engine.MinPrefix)
	assert.Equal(t, "cache:6380", cfg.Remote.Addr)
	assert.Equal(t, "suggestions", cfg.Remote.Key)

	opts := cfg.EngineOptions()
	assert.Equal(t, 8, opts.Limit)
	assert.Equal(t, 50*time.Millisecond, opts.RemoteTimeout)
	assert.NotNil(t, opts.Matcher)

	assert.Equal(t, "cache:6380", cfg.RedisOptions().Addr)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// limit has the wrong type, so the typed decode fails and the rest of
	// the file is salvaged.
	path := writeConfig(t, `
[engine]
limit = "many"
min_prefix = 3

[server]
http_addr = ":8080"

[cli]
default_no_filter = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.Limit)
	assert.Equal(t, 3, cfg.Engine.MinPrefix)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.True(t, cfg.CLI.DefaultNoFilter)
}

func TestLoadConfigUnparseable(t *testing.T) {
	path := writeConfig(t, "[engine\nlimit = ")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeahead", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[builder]\nprefix_size = 4\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 4, cfg.Builder.PrefixSize)
	assert.Equal(t, path, GetActiveConfigPath(path))
}

func TestGetConfigDirHasNoSideEffects(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" || runtime.GOOS == "plan9" {
		t.Skip("user config dir does not follow XDG_CONFIG_HOME here")
	}
	home := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "typeahead"), dir)
	assert.NoDirExists(t, dir)
	assert.NoDirExists(t, filepath.Join(home, "Library"))

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	_, err = InitConfig(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	again, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}
