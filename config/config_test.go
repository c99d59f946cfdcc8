package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "3500", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.ScannerURL)
	assert.Equal(t, 30*time.Second, cfg.ScannerTimeout)
	assert.Equal(t, "reports", cfg.ReportsDir)
	assert.False(t, cfg.DatabaseEnabled())
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(envFrom(map[string]string{
		"PORT":                "8080",
		"SCANNER_SERVICE_URL": "http://scanner:3000",
		"SCANNER_TIMEOUT":     "5s",
		"PDF_ENGINE":          "fpdf",
		"ENABLE_SQS":          "true",
		"WORKERS":             "9",
		"RENDER_TIMEOUT":      "not-a-duration",
	}))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://scanner:3000", cfg.ScannerURL)
	assert.Equal(t, 5*time.Second, cfg.ScannerTimeout)
	assert.Equal(t, "fpdf", cfg.PDFEngine)
	assert.True(t, cfg.EnableSQS)
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, 60*time.Second, cfg.RenderTimeout, "valor inválido mantém o padrão")
}

func TestPostgresConnString(t *testing.T) {
	cfg := Config{PGHost: "db", PGPort: "5432", PGName: "reports", PGUser: "app", PGPassword: "pw"}
	assert.True(t, cfg.DatabaseEnabled())
	assert.Equal(t, "host=db port=5432 dbname=reports user=app password=pw sslmode=disable", cfg.PostgresConnString())

	cfg.DatabaseURL = "postgres://app:pw@db/reports"
	assert.Equal(t, "postgres://app:pw@db/reports", cfg.PostgresConnString())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nreports_dir: /tmp/out\nworkers: 2\n"), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "/tmp/out", cfg.ReportsDir)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromEmptyPathUsesEnvOnly(t *testing.T) {
	t.Setenv("PDF_ENGINE", "fpdf")
	t.Setenv("REPORTS_DIR", "")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, "fpdf", cfg.PDFEngine)
	assert.Equal(t, Default().ReportsDir, cfg.ReportsDir)
}
