// Package generator runs the literal transformer over every cstr directive of
// a Go package directory and maintains the generated constants file.
//
// A directive is a line comment naming a constant and giving one string
// literal:
//
//	//cstr:lit DevPtmx "/dev/ptmx"
//
// Each directive is transformed on its own; any failure aborts generation for
// the package and is reported with the directive's position.
package generator

import (
	"bytes"
	"context"
	"cstrgen/internal/literal"
	"cstrgen/pkg/metrics"
	"cstrgen/pkg/serrors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// Mode selects what a run does with the rendered file.
type Mode int

const (
	// ModeGenerate writes the rendered file when it differs from disk.
	ModeGenerate Mode = iota
	// ModeCheck fails with serrors.ErrStale when disk differs.
	ModeCheck
)

// Action is what happened to a package's generated file.
type Action string

const (
	// ActionWritten means the file was created or replaced.
	ActionWritten Action = "written"
	// ActionUnchanged means the file already had the rendered content.
	ActionUnchanged Action = "unchanged"
	// ActionRemoved means the package has no directives left and the stale
	// generated file was deleted.
	ActionRemoved Action = "removed"
	// ActionNone means there are no directives and no generated file.
	ActionNone Action = "none"
)

// Result describes one processed package directory.
type Result struct {
	Dir        string
	Package    string
	OutputPath string
	Constants  []Constant
	Action     Action
}

// Generator is safe for concurrent use; runs share no state.
type Generator struct {
	options Options
	output  Output
}

// New returns a Generator writing through output.
func New(output Output, options Options) *Generator {
	return &Generator{options: options.withDefaults(), output: output}
}

// Run processes one package directory.
func (g *Generator) Run(ctx context.Context, dir string, mode Mode) (*Result, error) {
	start := time.Now()
	log := g.options.Logger.With(slog.String("dir", dir))

	res, err := g.run(ctx, dir, mode, log)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		log.DebugContext(ctx, "package failed", slog.Any("error", err))
	}
	g.options.Metrics.Package(ctx, outcome, time.Since(start))

	return res, err
}

// RunAll processes dirs with at most concurrency packages in flight. Every
// directory is processed even when others fail; the returned error holds the
// diagnostics of all of them.
func (g *Generator) RunAll(ctx context.Context, dirs []string, mode Mode, concurrency int) ([]*Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*Result, len(dirs))
	errs := make([]error, len(dirs))

	var eg errgroup.Group
	eg.SetLimit(concurrency)
	for i, dir := range dirs {
		eg.Go(func() error {
			results[i], errs[i] = g.Run(ctx, dir, mode)

			return nil
		})
	}
	_ = eg.Wait()

	var diags Diagnostics
	for _, err := range errs {
		if err != nil {
			diags = diags.flatten(err)
		}
	}
	if len(diags) > 0 {
		return results, diags
	}

	return results, nil
}

func (g *Generator) run(ctx context.Context, dir string, mode Mode, log *slog.Logger) (*Result, error) {
	res := &Result{Dir: dir, OutputPath: filepath.Join(dir, g.options.OutputFile)}

	fset := token.NewFileSet()
	files, testFiles, pkg, err := g.parseDir(ctx, fset, dir)
	if err != nil {
		return nil, err
	}
	res.Package = pkg

	constants, err := g.collect(ctx, fset, files, testFiles, log)
	if err != nil {
		return nil, err
	}
	res.Constants = constants

	current, err := g.output.ReadFile(ctx, res.OutputPath)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not read %s", res.OutputPath)
	}

	if len(constants) == 0 {
		return g.finishEmpty(ctx, res, current, exists, mode)
	}

	rendered, err := render(pkg, g.options.ImportPath, constants)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not render %s", res.OutputPath)
	}

	switch {
	case exists && bytes.Equal(current, rendered):
		res.Action = ActionUnchanged
	case mode == ModeCheck:
		return nil, serrors.With(serrors.ErrStale, "%s is out of date, run cstrgen generate", res.OutputPath)
	default:
		if err := g.output.WriteFile(ctx, res.OutputPath, rendered); err != nil {
			return nil, serrors.Wrap(serrors.ErrInternal, err, "could not write %s", res.OutputPath)
		}
		res.Action = ActionWritten
	}

	log.InfoContext(ctx, "generated constants",
		slog.String("package", pkg),
		slog.Int("constants", len(constants)),
		slog.String("action", string(res.Action)))

	return res, nil
}

// finishEmpty handles a package without directives. Only a file carrying the
// generated header is treated as ours.
func (g *Generator) finishEmpty(ctx context.Context, res *Result, current []byte, exists bool, mode Mode) (*Result, error) {
	if !exists || !bytes.HasPrefix(current, []byte(header)) {
		res.Action = ActionNone

		return res, nil
	}
	if mode == ModeCheck {
		return nil, serrors.With(serrors.ErrStale, "%s has no directives left, run cstrgen generate", res.OutputPath)
	}
	if err := g.output.Remove(ctx, res.OutputPath); err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not remove %s", res.OutputPath)
	}
	res.Action = ActionRemoved

	return res, nil
}

// parseDir parses the Go files of dir that belong to its package and returns
// them with the package name. External test packages are skipped. The second
// slice holds in-package test files that are not scanned for directives but
// whose declarations still share the package scope.
func (g *Generator) parseDir(ctx context.Context, fset *token.FileSet, dir string) ([]*ast.File, []*ast.File, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, "", serrors.Wrap(serrors.ErrInternal, err, "could not list %s", dir)
	}

	var (
		files     []*ast.File
		testFiles []*ast.File
		pkg       string
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, "", errors.Wrap(err, "parse package")
		}
		use := g.fileUse(entry)
		if use == useSkip {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		mode := parser.ParseComments | parser.SkipObjectResolution
		if use == useNames {
			mode = parser.SkipObjectResolution
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return nil, nil, "", serrors.Wrap(serrors.ErrInternal, err, "could not parse %s", path)
		}

		name := file.Name.Name
		if strings.HasSuffix(name, "_test") && strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		if pkg != "" && name != pkg {
			return nil, nil, "", serrors.With(serrors.ErrMalformedInput, "found packages %s and %s in %s", pkg, name, dir).
				At(fset.Position(file.Name.Pos()))
		}
		pkg = name
		if use == useNames {
			testFiles = append(testFiles, file)

			continue
		}
		files = append(files, file)
	}

	return files, testFiles, pkg, nil
}

type fileUse int

const (
	useSkip fileUse = iota
	// useDirectives files are scanned for directives and declarations.
	useDirectives
	// useNames files only contribute declarations.
	useNames
)

func (g *Generator) fileUse(entry fs.DirEntry) fileUse {
	name := entry.Name()
	switch {
	case entry.IsDir(),
		!strings.HasSuffix(name, ".go"),
		strings.HasPrefix(name, "."),
		strings.HasPrefix(name, "_"),
		name == g.options.OutputFile:
		return useSkip
	case strings.HasSuffix(name, "_test.go") && !g.options.IncludeTests:
		return useNames
	default:
		return useDirectives
	}
}

// collect transforms every directive of files. All failures are gathered so
// one run reports every broken literal. Names are checked against every
// package-level declaration, including those of testFiles, and against the
// import name the generated file uses for the CStr package.
func (g *Generator) collect(ctx context.Context,
	fset *token.FileSet,
	files, testFiles []*ast.File,
	log *slog.Logger) ([]Constant, error) {
	declared := map[string]token.Position{}
	for _, file := range append(append([]*ast.File{}, files...), testFiles...) {
		for name, pos := range packageNames(fset, file) {
			declared[name] = pos
		}
	}
	importName := qualifier(g.options.ImportPath)

	var (
		constants []Constant
		diags     Diagnostics
		seen      = map[string]token.Position{}
		used      bool
	)
	for _, file := range files {
		invocations, malformed := findInvocations(fset, file, g.options.Directive)
		for range malformed {
			g.options.Metrics.Literal(ctx, metrics.OutcomeMalformed)
		}
		diags = append(diags, malformed...)

		for _, inv := range invocations {
			if prev, ok := seen[inv.Name]; ok {
				diags = append(diags, serrors.With(serrors.ErrDuplicateName,
					"%s redeclared, previous directive at %s", inv.Name, prev).At(inv.NamePos))

				continue
			}
			seen[inv.Name] = inv.NamePos
			used = true
			if inv.Name == importName {
				diags = append(diags, serrors.With(serrors.ErrDuplicateName,
					"%s conflicts with the import of %s in the generated file", inv.Name, g.options.ImportPath).
					At(inv.NamePos))

				continue
			}
			if prev, ok := declared[inv.Name]; ok {
				diags = append(diags, serrors.With(serrors.ErrDuplicateName,
					"%s already declared at %s", inv.Name, prev).At(inv.NamePos))

				continue
			}

			c, err := transform(inv)
			g.options.Metrics.Literal(ctx, outcomeOf(err))
			if err != nil {
				diags = append(diags, err)

				continue
			}
			log.DebugContext(ctx, "transformed literal", slog.String("name", c.Name), slog.String("literal", c.Literal))
			constants = append(constants, c)
		}
	}

	if pos, ok := declared[importName]; ok && used {
		diags = append(diags, serrors.With(serrors.ErrDuplicateName,
			"%s conflicts with the import of %s in the generated file", importName, g.options.ImportPath).At(pos))
	}

	if len(diags) > 0 {
		diags.sort()

		return nil, diags
	}

	return constants, nil
}

func transform(inv invocation) (Constant, error) {
	lit, err := literal.Parse(inv.Input, inv.InputPos)
	if err != nil {
		return Constant{}, err
	}
	buf, err := literal.Transform(lit)
	if err != nil {
		return Constant{}, err
	}

	return Constant{
		Name:    inv.Name,
		Literal: lit.Text,
		Source:  fmt.Sprintf("%s:%d", filepath.Base(lit.Pos.Filename), lit.Pos.Line),
		Value:   buf.Quoted(),
	}, nil
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, serrors.ErrEmbeddedNull):
		return metrics.OutcomeEmbeddedNull
	case errors.Is(err, serrors.ErrMalformedInput):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeError
	}
}
