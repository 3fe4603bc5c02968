package generator

import (
	"cstrgen/pkg/serrors"
	"go/ast"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// invocation is one directive comment: the constant to declare and the raw
// literal input that follows its name.
type invocation struct {
	Name     string
	NamePos  token.Position
	Input    string
	InputPos token.Position
}

// findInvocations returns the directives of file in source order. A comment
// that starts with the directive but cannot be split into a name and an
// input is reported as malformed; comments that merely share a prefix
// (//cstr:literal for cstr:lit) are ignored.
func findInvocations(fset *token.FileSet, file *ast.File, directive string) ([]invocation, Diagnostics) {
	var (
		prefix = "//" + directive
		found  []invocation
		diags  Diagnostics
	)

	for _, group := range file.Comments {
		for _, c := range group.List {
			rest, ok := strings.CutPrefix(c.Text, prefix)
			if !ok {
				continue
			}
			if rest != "" {
				if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsSpace(r) {
					continue
				}
			}

			pos := fset.Position(c.Slash)
			inv, err := splitInvocation(rest, advance(pos, len(prefix)))
			if err != nil {
				diags = append(diags, err)

				continue
			}
			found = append(found, inv)
		}
	}

	return found, diags
}

// splitInvocation splits "  Name <input>" where pos is the position of the
// first byte of text.
func splitInvocation(text string, pos token.Position) (invocation, error) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	namePos := advance(pos, len(text)-len(trimmed))

	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		end = len(trimmed)
	}
	name := trimmed[:end]

	switch {
	case name == "":
		return invocation{}, serrors.With(serrors.ErrMalformedInput, "expected a constant name").At(namePos)
	case !token.IsIdentifier(name) || name == "_" || name == "init":
		return invocation{}, serrors.With(serrors.ErrMalformedInput, "expected a constant name, found %s", name).
			At(namePos)
	}

	return invocation{
		Name:     name,
		NamePos:  namePos,
		Input:    trimmed[end:],
		InputPos: advance(namePos, end),
	}, nil
}

// packageNames returns the package-level identifiers declared in file.
func packageNames(fset *token.FileSet, file *ast.File) map[string]token.Position {
	names := map[string]token.Position{}
	add := func(id *ast.Ident) {
		if id != nil && id.Name != "_" {
			names[id.Name] = fset.Position(id.Pos())
		}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				add(d.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, id := range s.Names {
						add(id)
					}
				case *ast.TypeSpec:
					add(s.Name)
				}
			}
		}
	}

	return names
}

// advance moves pos forward by n bytes on the same line.
func advance(pos token.Position, n int) token.Position {
	pos.Offset += n
	pos.Column += n

	return pos
}
