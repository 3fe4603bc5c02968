// Package literal turns one quoted Go string literal into a null-terminated
// constant. It is the unit of work behind every cstr directive: parse the
// invocation input, prove the literal holds no null byte, and render the
// terminated buffer as a Go expression of type cstr.CStr.
package literal

import (
	"cstrgen/pkg/cstr"
	"cstrgen/pkg/serrors"
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"

	"github.com/go-faster/errors"
)

// expected names the only accepted input shape in every malformed-input
// diagnostic.
const expected = "expected a string literal"

// SourceLiteral is a string literal as written in the caller's source.
type SourceLiteral struct {
	// Text is the literal exactly as written, quotes included.
	Text string
	// Value holds the decoded bytes of the literal.
	Value []byte
	// Pos is the position of the literal's opening quote.
	Pos token.Position
}

// NullByteError is the cause of an EmbeddedNull failure.
type NullByteError struct {
	// Literal is the literal as written.
	Literal string
	// Offset is the byte offset of the first null in the decoded value.
	Offset int
}

func (e *NullByteError) Error() string {
	return fmt.Sprintf("%s contains a null byte at position %d", e.Literal, e.Offset)
}

// Buffer is a validated literal with its terminator appended.
type Buffer struct {
	Literal SourceLiteral
	// Bytes is Literal.Value followed by a single null byte.
	Bytes []byte
}

// CStr wraps the buffer without scanning it again; Transform already did.
func (b Buffer) CStr() cstr.CStr {
	return cstr.FromBytesWithNulUnchecked(b.Bytes)
}

// Quoted returns the buffer as an interpreted Go string literal.
func (b Buffer) Quoted() string {
	return strconv.Quote(string(b.Bytes))
}

// Hex returns the buffer as space separated hex bytes.
func (b Buffer) Hex() string {
	return fmt.Sprintf("% x", b.Bytes)
}

// Fragment is the Go expression produced for one invocation.
type Fragment struct {
	Buffer Buffer
	// Code is a constant expression of type cstr.CStr.
	Code string
}

// Parse tokenizes input, which must be exactly one string literal,
// interpreted or raw. pos is the position of input's first byte in the
// caller's source and is used for every diagnostic.
func Parse(input string, pos token.Position) (SourceLiteral, error) {
	type item struct {
		offset int
		tok    token.Token
		lit    string
	}

	var (
		fset    = token.NewFileSet()
		file    = fset.AddFile(pos.Filename, -1, len(input))
		s       scanner.Scanner
		scanErr *scanner.Error
		items   []item
	)
	s.Init(file, []byte(input), func(p token.Position, msg string) {
		if scanErr == nil {
			scanErr = &scanner.Error{Pos: p, Msg: msg}
		}
	}, 0)

	for {
		p, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// automatic semicolon after a trailing literal
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		items = append(items, item{offset: file.Offset(p), tok: tok, lit: lit})
	}

	if scanErr != nil {
		return SourceLiteral{}, serrors.Wrap(serrors.ErrMalformedInput, errors.New(scanErr.Msg), expected).
			At(shift(pos, scanErr.Pos.Offset))
	}
	if len(items) == 0 {
		return SourceLiteral{}, serrors.With(serrors.ErrMalformedInput, "%s, found nothing", expected).At(pos)
	}

	first := items[0]
	if first.tok != token.STRING {
		return SourceLiteral{}, serrors.With(serrors.ErrMalformedInput, "%s, found %s", expected, describe(first.tok, first.lit)).
			At(shift(pos, first.offset))
	}
	if len(items) > 1 {
		extra := items[1]

		return SourceLiteral{}, serrors.With(serrors.ErrMalformedInput, "%s, found trailing %s", expected,
			describe(extra.tok, extra.lit)).At(shift(pos, extra.offset))
	}

	value, err := strconv.Unquote(first.lit)
	if err != nil {
		return SourceLiteral{}, serrors.Wrap(serrors.ErrMalformedInput, err, expected).At(shift(pos, first.offset))
	}

	return SourceLiteral{
		Text:  first.lit,
		Value: []byte(value),
		Pos:   shift(pos, first.offset),
	}, nil
}

// Transform validates lit and appends the terminator. A literal holding a
// null byte fails with ErrEmbeddedNull reporting the first null's offset.
func Transform(lit SourceLiteral) (Buffer, error) {
	if i, ok := cstr.FindFirstNull(lit.Value); ok {
		return Buffer{}, serrors.Wrap(serrors.ErrEmbeddedNull, &NullByteError{Literal: lit.Text, Offset: i}, "").
			At(lit.Pos)
	}

	b := make([]byte, len(lit.Value)+1)
	copy(b, lit.Value)

	return Buffer{Literal: lit, Bytes: b}, nil
}

// Expand runs Parse and Transform on input and renders the result as a
// cstr.CStr conversion of the terminated literal.
func Expand(input string, pos token.Position) (Fragment, error) {
	lit, err := Parse(input, pos)
	if err != nil {
		return Fragment{}, err
	}

	buf, err := Transform(lit)
	if err != nil {
		return Fragment{}, err
	}

	return Fragment{Buffer: buf, Code: "cstr.CStr(" + buf.Quoted() + ")"}, nil
}

// NullOffset reports the offset carried by an EmbeddedNull failure.
func NullOffset(err error) (int, bool) {
	var nbe *NullByteError
	if errors.As(err, &nbe) {
		return nbe.Offset, true
	}

	return 0, false
}

func describe(tok token.Token, lit string) string {
	if lit != "" && lit != "\n" {
		return lit
	}

	return tok.String()
}

// shift moves pos forward by off bytes on the same line. Directive input
// never spans lines.
func shift(pos token.Position, off int) token.Position {
	if !pos.IsValid() {
		return pos
	}
	pos.Offset += off
	pos.Column += off

	return pos
}
