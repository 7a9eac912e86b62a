package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"web"}, args...)
}

func writeJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "web.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":3000", c.ListenAddr)
	assert.Equal(t, "http://localhost:4000/api", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.False(t, c.RedirectAuthenticated)
	assert.True(t, c.IsDevelopment())
}

func TestParseFlags(t *testing.T) {
	withArgs(t, "-a", ":8080", "-api", "https://api.medcasegen.io", "-t", "3s", "-e", "production", "-r", "-unknown", "x")

	cfg := defaults()
	require.NotPanics(t, func() { parseFlags(cfg) })

	want := defaults()
	want.ListenAddr = ":8080"
	want.APIBaseURL = "https://api.medcasegen.io"
	want.RequestTimeout = 3 * time.Second
	want.Environment = "production"
	want.RedirectAuthenticated = true
	assert.Empty(t, cmp.Diff(want, cfg))
	assert.False(t, cfg.IsDevelopment())
}

func TestParseFlags_BadDurationPanics(t *testing.T) {
	withArgs(t, "-t", "soon")
	require.Panics(t, func() { parseFlags(defaults()) })
}

func TestParseJson(t *testing.T) {
	t.Run("overlays present keys only", func(t *testing.T) {
		withArgs(t, "-c", writeJSON(t, map[string]any{
			"api_base_url":           "http://api:4000/api",
			"request_timeout":        "5s",
			"redirect_authenticated": true,
		}))

		cfg := defaults()
		parseJson(cfg)

		want := defaults()
		want.APIBaseURL = "http://api:4000/api"
		want.RequestTimeout = 5 * time.Second
		want.RedirectAuthenticated = true
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("no file leaves config untouched", func(t *testing.T) {
		withArgs(t)
		cfg := defaults()
		parseJson(cfg)
		assert.Empty(t, cmp.Diff(defaults(), cfg))
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		withArgs(t, "-config", bad)
		require.Panics(t, func() { parseJson(defaults()) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))
		require.Panics(t, func() { parseJson(defaults()) })
	})
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	path := writeJSON(t, map[string]any{"address": ":7000", "environment": "staging"})
	withArgs(t, "-c", path, "-a", ":9000")

	cfg := LoadConfig()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "staging", cfg.Environment)
}
