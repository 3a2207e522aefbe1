package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
	Database struct {
		URL     string        `koanf:"url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"database"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithOptions_Layers(t *testing.T) {
	// given
	dir := t.TempDir()
	opts := Options{
		ConfigFile: writeFile(t, dir, "config.yaml", "server:\n  port: 8080\ndatabase:\n  url: postgres://yaml\n  timeout: 5s\n"),
		EnvFile:    writeFile(t, dir, ".env", "TESTSVC_DATABASE_URL=postgres://dotenv\nOTHER_SERVER_PORT=1\n"),
	}
	t.Setenv("TESTSVC_SERVER_PORT", "9090")

	// when
	cfg, err := LoadWithOptions[*testConfig]("testsvc", opts)

	// then
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port, "system env overrides yaml")
	assert.Equal(t, "postgres://dotenv", cfg.Database.URL, ".env overrides yaml")
	assert.Equal(t, 5*time.Second, cfg.Database.Timeout)
}

func TestLoadWithOptions_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ConfigFile: filepath.Join(dir, "absent.yaml"),
		EnvFile:    filepath.Join(dir, "absent.env"),
	}
	t.Setenv("TESTSVC_SERVER_PORT", "7070")

	cfg, err := LoadWithOptions[*testConfig]("testsvc", opts)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadWithOptions_ValidationFails(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ConfigFile: writeFile(t, dir, "config.yaml", "database:\n  url: postgres://yaml\n"),
		EnvFile:    filepath.Join(dir, "absent.env"),
	}

	_, err := LoadWithOptions[*testConfig]("testsvc", opts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
