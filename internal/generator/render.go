package generator

import (
	"bytes"
	_ "embed"
	"go/format"
	"path"
	"text/template"

	"github.com/go-faster/errors"
)

// header starts every generated file. Only files carrying it are ever
// removed by the generator.
const header = "// Code generated by cstrgen. DO NOT EDIT."

//go:embed cstr_gen.go.tmpl
var fileTemplateText string

var fileTemplate = template.Must(template.New("cstr_gen").Parse(fileTemplateText)) //nolint: gochecknoglobals

// Constant is one declaration of the generated file.
type Constant struct {
	// Name is the declared identifier.
	Name string
	// Literal is the literal as written in the directive.
	Literal string
	// Source is "file.go:line" of the directive.
	Source string
	// Value is the Go literal of the terminated bytes.
	Value string
}

type fileData struct {
	Package    string
	ImportPath string
	Qualifier  string
	Alias      bool
	Constants  []Constant
}

// render produces the formatted generated file.
func render(pkg, importPath string, constants []Constant) ([]byte, error) {
	var buf bytes.Buffer
	q := qualifier(importPath)
	err := fileTemplate.Execute(&buf, fileData{
		Package:    pkg,
		ImportPath: importPath,
		Qualifier:  q,
		Alias:      q != path.Base(importPath),
		Constants:  constants,
	})
	if err != nil {
		return nil, errors.Wrap(err, "execute template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "format generated source")
	}

	return src, nil
}

// qualifier picks the local name for the imported cstr package. A major
// version suffix such as /v2 is skipped.
func qualifier(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}

	return sanitize(base)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return s != ""
}

// sanitize turns an import path element into an identifier, e.g. go-cstr
// becomes go_cstr.
func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		ok := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9')
		if !ok {
			b[i] = '_'
		}
	}

	return string(b)
}
