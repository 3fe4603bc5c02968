package config_test

import (
	"cstrgen/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, "quiet", cfg.Environment)
	require.Equal(t, "cstr_gen.go", cfg.Generator.OutputFile)
	require.Equal(t, "cstrgen/pkg/cstr", cfg.Generator.ImportPath)
	require.Equal(t, "cstr:lit", cfg.Generator.Directive)
	require.False(t, cfg.Generator.IncludeTests)
	require.Equal(t, 4, cfg.Generator.Concurrency)
	require.Equal(t, time.Minute, cfg.Generator.Timeout)
	require.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CSTRGEN_OUTPUT_FILE", "zz_cstr.go")
	t.Setenv("CSTRGEN_CONCURRENCY", "1")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "zz_cstr.go", cfg.Generator.OutputFile)
	require.Equal(t, 1, cfg.Generator.Concurrency)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cstrgen.yml")
	require.NoError(t, os.WriteFile(path, []byte(`environment: production
generator:
  outputFile: native_gen.go
  importPath: example.com/ffi/cstr
  includeTests: true
metrics:
  textfilePath: /var/lib/node_exporter/cstrgen.prom
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "native_gen.go", cfg.Generator.OutputFile)
	require.Equal(t, "example.com/ffi/cstr", cfg.Generator.ImportPath)
	require.True(t, cfg.Generator.IncludeTests)
	require.Equal(t, "cstr:lit", cfg.Generator.Directive, "unset keys keep defaults")
	require.Equal(t, "/var/lib/node_exporter/cstrgen.prom", cfg.Metrics.TextfilePath)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cstrgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`environment = "development"

[generator]
directive = "ffi:cstr"
concurrency = 2
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "ffi:cstr", cfg.Generator.Directive)
	require.Equal(t, 2, cfg.Generator.Concurrency)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cstrgen.yml")
	require.NoError(t, os.WriteFile(path, []byte("generator: [\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}
