package generator

import (
	"cstrgen/internal/config"
	"cstrgen/pkg/metrics"
	"log/slog"
)

// Options configure how directives are found and how the output is rendered.
// These settings are typically derived from application configuration.
type Options struct {
	// OutputFile is the generated file name inside each package directory.
	OutputFile string
	// ImportPath is the import path of the package declaring CStr.
	ImportPath string
	// Directive is the comment prefix, without "//", marking an invocation.
	Directive string
	// IncludeTests also scans _test.go files of the package itself.
	IncludeTests bool

	// Logger receives progress logs. Nil discards them.
	Logger *slog.Logger
	// Metrics receives per-literal and per-package outcomes. Nil disables them.
	Metrics *metrics.Recorder
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		OutputFile:   cfg.Generator.OutputFile,
		ImportPath:   cfg.Generator.ImportPath,
		Directive:    cfg.Generator.Directive,
		IncludeTests: cfg.Generator.IncludeTests,
	}
}

func (o Options) withDefaults() Options {
	if o.OutputFile == "" {
		o.OutputFile = "cstr_gen.go"
	}
	if o.ImportPath == "" {
		o.ImportPath = "cstrgen/pkg/cstr"
	}
	if o.Directive == "" {
		o.Directive = "cstr:lit"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return o
}
