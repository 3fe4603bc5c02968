package main

import (
	"bytes"
	"context"
	"cstrgen/internal/config"
	"cstrgen/pkg/metrics"
	"cstrgen/pkg/serrors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralCommand(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		out  string
		err  string
	}{
		{
			name: "device path",
			arg:  `"/dev/ptmx"`,
			out:  "cstr.CStr(\"/dev/ptmx\\x00\")\n2f 64 65 76 2f 70 74 6d 78 00\n",
		},
		{
			name: "empty",
			arg:  `""`,
			out:  "cstr.CStr(\"\\x00\")\n00\n",
		},
		{
			name: "embedded null",
			arg:  `"Hell\x00, world"`,
			err:  `"Hell\x00, world" contains a null byte at position 4`,
		},
		{
			name: "number",
			arg:  `42`,
			err:  "expected a string literal, found 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := literalCommand()
			cmd.SetArgs([]string{tt.arg})
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SilenceUsage = true

			err := cmd.Execute()
			if tt.err != "" {
				require.EqualError(t, err, tt.err)

				var printed bytes.Buffer
				report(&printed, err)
				require.Equal(t, tt.err+"\n", printed.String(), "no position for command line input")

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.out, out.String())
		})
	}
}

func TestGenerateAndCheckCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.go"), []byte(`package dev

//cstr:lit DevPtmx "/dev/ptmx"
`), 0o600))

	cfg, err := config.Load("")
	require.NoError(t, err)
	rec, err := metrics.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	check := checkCommand(cfg, rec)
	check.SetArgs([]string{dir})
	require.ErrorIs(t, check.Execute(), serrors.ErrStale)

	gen := generateCommand(cfg, rec)
	gen.SetArgs([]string{dir})
	require.NoError(t, gen.Execute())
	require.FileExists(t, filepath.Join(dir, "cstr_gen.go"))

	check = checkCommand(cfg, rec)
	check.SetArgs([]string{dir})
	require.NoError(t, check.Execute())

	path := filepath.Join(t.TempDir(), "cstrgen.prom")
	writeMetrics(context.Background(), rec, path)
	require.FileExists(t, path)
}

func TestGenerateReportsEveryDiagnostic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.go"), []byte(`package dev

//cstr:lit A "ab\x00cd\x00"
//cstr:lit B devPath
`), 0o600))

	cfg, err := config.Load("")
	require.NoError(t, err)

	gen := generateCommand(cfg, nil)
	gen.SetArgs([]string{dir})
	err = gen.Execute()
	require.Error(t, err)

	var out bytes.Buffer
	report(&out, err)
	file := filepath.Join(dir, "dev.go")
	require.Equal(t,
		file+`:3:14: "ab\x00cd\x00" contains a null byte at position 2`+"\n"+
			file+":4:14: expected a string literal, found devPath\n",
		out.String())
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default", args: []string{"generate", "."}, want: defaultConfigPath},
		{name: "short before subcommand", args: []string{"-c", "x.yml", "generate"}, want: "x.yml"},
		{name: "short with equals", args: []string{"-c=x.yml", "generate"}, want: "x.yml"},
		{name: "long", args: []string{"--config", "x.yml", "generate"}, want: "x.yml"},
		{name: "long with equals", args: []string{"--config=x.yml", "check"}, want: "x.yml"},
		{name: "after subcommand", args: []string{"generate", "-c", "x.yml", "."}, want: "x.yml"},
		{name: "after another flag", args: []string{"--metrics-textfile", "m.prom", "-c", "x.yml"}, want: "x.yml"},
		{name: "after terminator", args: []string{"literal", "--", "-c", "x.yml"}, want: defaultConfigPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, configPath(tt.args))
		})
	}
}
