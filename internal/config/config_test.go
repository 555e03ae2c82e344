package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, k := range []string{EnvBaseURL, EnvLegacyBaseURL, EnvUserID, EnvEmail, EnvReporting, EnvConfigPath} {
		t.Setenv(k, "")
	}
	SetPath("")
	t.Cleanup(func() { SetPath("") })
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.com/prod"
	cfg.User.ID = "123"
	cfg.User.Email = "owner@example.com"
	cfg.Reporting.Policy = ReportingStrict
	require.NoError(t, Save(cfg))

	assert.True(t, Exists())
	assert.Equal(t, filepath.Join(dir, "budgetdash", "config.toml"), Path())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user]\nid = \"42\"\n"), 0o600))
	SetPath(path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.User.ID)
	assert.Equal(t, "₹", cfg.Display.CurrencySymbol)
	assert.Equal(t, 10, cfg.API.TimeoutSeconds)
}

func TestLoadInvalidToml(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user\nid="), 0o600))
	SetPath(path)

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://from-config"
	cfg.User.ID = "cfg-user"
	cfg.User.Email = "cfg@example.com"

	assert.Equal(t, "https://from-config", GetBaseURL(cfg))

	t.Setenv(EnvLegacyBaseURL, "https://legacy")
	assert.Equal(t, "https://legacy", GetBaseURL(cfg))

	t.Setenv(EnvBaseURL, "https://primary")
	assert.Equal(t, "https://primary", GetBaseURL(cfg))

	t.Setenv(EnvUserID, "env-user")
	t.Setenv(EnvEmail, "env@example.com")
	assert.Equal(t, "env-user", GetUserID(cfg))
	assert.Equal(t, "env@example.com", GetEmail(cfg))
}

func TestReportingPolicy(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	assert.Equal(t, ReportingOptimistic, GetReportingPolicy(cfg))

	cfg.Reporting.Policy = "STRICT"
	assert.Equal(t, ReportingStrict, GetReportingPolicy(cfg))

	cfg.Reporting.Policy = "bogus"
	assert.Equal(t, ReportingOptimistic, GetReportingPolicy(cfg))

	t.Setenv(EnvReporting, "strict")
	assert.Equal(t, ReportingStrict, GetReportingPolicy(cfg))
}

func TestValidate(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	assert.ErrorIs(t, Validate(cfg), ErrMissingBaseURL)

	cfg.API.BaseURL = "https://api.example.com"
	assert.ErrorIs(t, Validate(cfg), ErrMissingUserID)

	cfg.User.ID = "123"
	assert.NoError(t, Validate(cfg))
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("REACT_APP_URL=https://dotenv.example.com\n"), 0o600))

	// godotenv does not override variables that are already set, even to
	// the empty string, so clear it from the environment entirely.
	require.NoError(t, os.Unsetenv(EnvLegacyBaseURL))
	t.Cleanup(func() { _ = os.Unsetenv(EnvLegacyBaseURL) })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "https://dotenv.example.com", GetBaseURL(DefaultConfig()))
}

func TestJournalAndLogPaths(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, filepath.Join(dir, "cache", "budgetdash", "journal.db"), JournalPath())

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(dir, "cache", "budgetdash", "budgetdash.log"), LogPath(cfg))
	cfg.Log.File = "/tmp/custom.log"
	assert.Equal(t, "/tmp/custom.log", LogPath(cfg))
}
