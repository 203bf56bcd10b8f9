package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"COLGEN_CONFIG", "COLGEN_SCHEMAS_DIR", "COLGEN_LOG_LEVEL", "COLGEN_LOG_FILE",
	"COLGEN_BIND_ADDR", "COLGEN_DEFAULT_FORMAT", "COLGEN_NULL_THRESHOLD",
	"COLGEN_ARRAY_NULL_THRESHOLD", "COLGEN_NAN_PERCENT", "COLGEN_BATCH_SIZE",
	"COLGEN_MAX_SAMPLE_ROWS",
}

// isolate moves into an empty directory and clears every COLGEN_* variable,
// restoring both on cleanup.
func isolate(t *testing.T) string {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	d := t.TempDir()
	require.NoError(t, os.Chdir(d))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	for _, k := range configKeys {
		old, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
	return d
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./schemas", cfg.SchemasDir)
	assert.Equal(t, 75, cfg.NullThreshold)
	assert.Equal(t, 75, cfg.ArrayNullThreshold)
	assert.Equal(t, 50, cfg.NaNPercent)
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, "table", cfg.DefaultFormat)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	d := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(d, ".env"),
		[]byte("# local\nCOLGEN_SCHEMAS_DIR=\"/srv/schemas\"\nexport COLGEN_LOG_LEVEL=debug\nCOLGEN_NULL_THRESHOLD=10\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/schemas", cfg.SchemasDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.NullThreshold)
}

func TestLoad_EnvOverridesFileAndDotEnv(t *testing.T) {
	d := isolate(t)
	path := filepath.Join(d, "colgen.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"warn\"\nnan_percent = 20\nbatch_size = 64\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d, ".env"), []byte("COLGEN_NAN_PERCENT=30\n"), 0o644))
	t.Setenv("COLGEN_CONFIG", path)
	t.Setenv("COLGEN_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 30, cfg.NaNPercent)
	assert.Equal(t, 64, cfg.BatchSize)
}

func TestLoad_Rejects(t *testing.T) {
	isolate(t)
	t.Setenv("COLGEN_NULL_THRESHOLD", "101")
	_, err := Load()
	assert.ErrorContains(t, err, "null_threshold")

	t.Setenv("COLGEN_NULL_THRESHOLD", "x")
	_, err = Load()
	assert.ErrorContains(t, err, "COLGEN_NULL_THRESHOLD")
}

func TestLoad_DotEnvKeepsExistingVariables(t *testing.T) {
	d := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(d, ".env"),
		[]byte("COLGEN_LOG_LEVEL='debug' # inline comment\nCOLGEN_BIND_ADDR=:9090\n"), 0o644))
	t.Setenv("COLGEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.BindAddr)
}
