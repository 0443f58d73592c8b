package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/netlayer/pkg/decoder"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "netlayer", cfg.UserAgent)
	assert.False(t, cfg.HTTPDebug)
	assert.Equal(t, "json", cfg.DefaultDecoder)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NETLAYER_LOG_LEVEL", "debug")
	t.Setenv("NETLAYER_HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("NETLAYER_USER_AGENT", "tests/1.0")
	t.Setenv("NETLAYER_HTTP_DEBUG", "true")
	t.Setenv("NETLAYER_DEFAULT_DECODER", " YAML ")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "tests/1.0", cfg.UserAgent)
	assert.True(t, cfg.HTTPDebug)
	assert.Equal(t, "yaml", cfg.DefaultDecoder)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("NETLAYER_USER_AGENT=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NETLAYER_USER_AGENT") })

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.UserAgent)
}

func TestLoadSkipsMissingEnvFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "second.env")
	require.NoError(t, os.WriteFile(file, []byte("NETLAYER_USER_AGENT=from-second\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NETLAYER_USER_AGENT") })

	cfg, err := Load(missingEnvFile(t), file)
	require.NoError(t, err)
	assert.Equal(t, "from-second", cfg.UserAgent)
}

func TestLoadAcceptsEveryRegisteredFormat(t *testing.T) {
	for _, format := range []string{decoder.FormatJSON, decoder.FormatYAML, decoder.FormatXML, decoder.FormatHTML} {
		t.Run(format, func(t *testing.T) {
			t.Setenv("NETLAYER_DEFAULT_DECODER", format)
			cfg, err := Load(missingEnvFile(t))
			require.NoError(t, err)
			assert.Equal(t, format, cfg.DefaultDecoder)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero timeout", key: "NETLAYER_HTTP_TIMEOUT_SECONDS", val: "0"},
		{name: "negative timeout", key: "NETLAYER_HTTP_TIMEOUT_SECONDS", val: "-3"},
		{name: "unknown decoder", key: "NETLAYER_DEFAULT_DECODER", val: "toml"},
		{name: "blank decoder", key: "NETLAYER_DEFAULT_DECODER", val: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(missingEnvFile(t))
			require.Error(t, err)
		})
	}
}
