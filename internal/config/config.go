package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for logging, code generation and metrics.
type Config struct {
	// Environment selects the logger setup (development, production, quiet)
	Environment string `env:"CSTRGEN_ENVIRONMENT" env-default:"quiet" yaml:"environment" toml:"environment"`

	// Generator contains settings for the cstr code generator
	Generator struct {
		// OutputFile is the name of the generated file written into each package directory
		OutputFile string `env:"CSTRGEN_OUTPUT_FILE" env-default:"cstr_gen.go" yaml:"outputFile" toml:"outputFile"`
		// ImportPath is the import path of the package providing the CStr type
		ImportPath string `env:"CSTRGEN_IMPORT_PATH" env-default:"cstrgen/pkg/cstr" yaml:"importPath" toml:"importPath"`
		// Directive is the comment prefix, without "//", that marks an invocation
		Directive string `env:"CSTRGEN_DIRECTIVE" env-default:"cstr:lit" yaml:"directive" toml:"directive"`
		// IncludeTests makes directives in _test.go files part of the package
		IncludeTests bool `env:"CSTRGEN_INCLUDE_TESTS" env-default:"false" yaml:"includeTests" toml:"includeTests"`
		// Concurrency is the number of package directories processed at once
		Concurrency int `env:"CSTRGEN_CONCURRENCY" env-default:"4" yaml:"concurrency" toml:"concurrency"`
		// Timeout bounds a whole run
		Timeout time.Duration `env:"CSTRGEN_TIMEOUT" env-default:"1m" yaml:"timeout" toml:"timeout"`
	} `yaml:"generator" toml:"generator"`

	// Metrics contains settings for the metrics textfile
	Metrics struct {
		// TextfilePath is where Prometheus metrics are written after a run; empty disables it
		TextfilePath string `env:"CSTRGEN_METRICS_TEXTFILE" yaml:"textfilePath" toml:"textfilePath"`
	} `yaml:"metrics" toml:"metrics"`
}

// Load receives the path for a yaml or toml config file and returns a filled
// Config struct. A missing file is not an error for a go:generate tool: the
// configuration then comes from the environment and defaults alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from environment: %w", err)
	}

	return &cfg, nil
}
