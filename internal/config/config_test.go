package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "none", cfg.FailOn)
	assert.Equal(t, 50, cfg.MaxFindings)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 86400, cfg.Cache.TTLSeconds)
	assert.True(t, cfg.Privacy.RedactSecrets)
	assert.NotEmpty(t, cfg.Include)
	assert.NotEmpty(t, cfg.Exclude)
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Provider, cfg.Provider)
	assert.Equal(t, Default().MaxBundleBytes, cfg.MaxBundleBytes)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "provider: ollama\nmodel: qwen2.5-coder\nfailOn: Serious\ncache:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "qwen2.5-coder", cfg.Model)
	assert.Equal(t, "Serious", cfg.FailOn)
	assert.False(t, cfg.Cache.Enabled)

	// Fields the file omits keep their defaults.
	assert.Equal(t, Default().Format, cfg.Format)
	assert.Equal(t, Default().MaxFindings, cfg.MaxFindings)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: ollama\n"), 0o644))

	t.Setenv("AUDITMD_PROVIDER", "openai")
	t.Setenv("AUDITMD_MODEL", "gpt-4o")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestLoad_FlagOverridesWin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AUDITMD_PROVIDER", "openai")

	cfg, err := Load("", map[string]string{
		"provider":    "gemini",
		"maxFindings": "10",
		"include":     "src/**,lib/**",
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 10, cfg.MaxFindings)
	assert.Equal(t, []string{"src/**", "lib/**"}, cfg.Include)
}

func TestLoad_EmptyOverridesIgnored(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("", map[string]string{"provider": ""})
	require.NoError(t, err)
	assert.Equal(t, Default().Provider, cfg.Provider)
}

func TestSetField(t *testing.T) {
	cfg := Default()

	require.NoError(t, SetField(&cfg, "provider", "ollama"))
	assert.Equal(t, "ollama", cfg.Provider)

	require.NoError(t, SetField(&cfg, "maxFindings", "25"))
	assert.Equal(t, 25, cfg.MaxFindings)

	require.NoError(t, SetField(&cfg, "cache.enabled", "false"))
	assert.False(t, cfg.Cache.Enabled)

	require.NoError(t, SetField(&cfg, "exclude", "vendor/**, dist/**"))
	assert.Equal(t, []string{"vendor/**", "dist/**"}, cfg.Exclude)
}

func TestSetField_Errors(t *testing.T) {
	cfg := Default()

	err := SetField(&cfg, "nonsense", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")

	err = SetField(&cfg, "maxFindings", "many")
	require.Error(t, err)

	err = SetField(&cfg, "cache.enabled", "sometimes")
	require.Error(t, err)
}

func TestConfigDir_RespectsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "auditmd"), got)
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Provider = "gemini"
	cfg.Cache.TTLSeconds = 120
	require.NoError(t, Save(cfg))

	path, err := ConfigPath()
	require.NoError(t, err)

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini", loaded.Provider)
	assert.Equal(t, 120, loaded.Cache.TTLSeconds)
}
