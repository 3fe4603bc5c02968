package generator

import (
	"cstrgen/pkg/serrors"
	"errors"
	"go/token"
	"sort"
	"strings"
)

// Diagnostics collects every failed invocation of a run. Each entry renders
// as "file:line:col: message" through serrors.Positioned.
type Diagnostics []error

func (d Diagnostics) Error() string {
	lines := make([]string, len(d))
	for i, err := range d {
		lines[i] = serrors.Positioned(err)
	}

	return strings.Join(lines, "\n")
}

// Unwrap exposes the entries to errors.Is and errors.As.
func (d Diagnostics) Unwrap() []error { return d }

// sort orders entries by file and offset; entries without a position go last.
func (d Diagnostics) sort() {
	sort.SliceStable(d, func(i, j int) bool {
		pi, pj := position(d[i]), position(d[j])
		switch {
		case !pi.IsValid():
			return false
		case !pj.IsValid():
			return true
		case pi.Filename != pj.Filename:
			return pi.Filename < pj.Filename
		default:
			return pi.Offset < pj.Offset
		}
	})
}

// flatten appends err to d, splicing nested Diagnostics.
func (d Diagnostics) flatten(err error) Diagnostics {
	var nested Diagnostics
	if errors.As(err, &nested) {
		return append(d, nested...)
	}

	return append(d, err)
}

func position(err error) token.Position {
	var e *serrors.Error
	if errors.As(err, &e) {
		return e.Pos()
	}

	return token.Position{}
}
