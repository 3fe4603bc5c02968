package cstr

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrNotNulTerminated is returned by the checked constructors when the input
// does not end with a null byte.
var ErrNotNulTerminated = errors.New("cstr: input is not null-terminated")

// InteriorNulError is returned by the checked constructors when the input
// holds a null byte before its end.
type InteriorNulError struct {
	// Offset is the index of the first null byte.
	Offset int
}

func (e *InteriorNulError) Error() string {
	return fmt.Sprintf("cstr: interior null byte at position %d", e.Offset)
}

// CStr is a null-terminated string. The underlying string includes the
// trailing null.
type CStr string

// Empty is the empty CStr, a single null byte.
const Empty CStr = "\x00"

// New returns s with a null byte appended. It fails if s already contains a
// null byte.
func New(s string) (CStr, error) {
	if i, ok := FindFirstNull(s); ok {
		return "", &InteriorNulError{Offset: i}
	}

	return CStr(s + "\x00"), nil
}

// MustNew is like New but panics on invalid input. It is meant for
// package-level variables built from trusted strings.
func MustNew(s string) CStr {
	c, err := New(s)
	if err != nil {
		panic(err)
	}

	return c
}

// FromStringWithNul validates that s ends with its only null byte and
// returns it as a CStr without copying.
func FromStringWithNul(s string) (CStr, error) {
	i, ok := FindFirstNull(s)
	if !ok {
		return "", ErrNotNulTerminated
	}
	if i != len(s)-1 {
		return "", &InteriorNulError{Offset: i}
	}

	return CStr(s), nil
}

// FromBytesWithNul validates b like FromStringWithNul. The bytes are copied.
func FromBytesWithNul(b []byte) (CStr, error) {
	return FromStringWithNul(string(b))
}

// FromBytesWithNulUnchecked wraps b without scanning it. The caller asserts
// that b ends with a null byte and holds no other. The bytes are copied.
func FromBytesWithNulUnchecked(b []byte) CStr {
	return CStr(b)
}

// Len returns the length without the terminator.
func (c CStr) Len() int {
	if len(c) == 0 {
		return 0
	}

	return len(c) - 1
}

// IsEmpty reports whether c holds no bytes before its terminator.
func (c CStr) IsEmpty() bool { return c.Len() == 0 }

// String returns the text without the terminator.
func (c CStr) String() string { return string(c[:c.Len()]) }

// Bytes returns the text without the terminator. The result aliases the
// constant data and must not be modified.
func (c CStr) Bytes() []byte {
	if len(c) == 0 {
		return nil
	}

	return unsafe.Slice(unsafe.StringData(string(c)), c.Len())
}

// BytesWithNul returns the text including the terminator. The result aliases
// the constant data and must not be modified.
func (c CStr) BytesWithNul() []byte {
	if len(c) == 0 {
		return nil
	}

	return unsafe.Slice(unsafe.StringData(string(c)), len(c))
}

// Ptr returns a pointer to the first byte, for passing to native APIs.
// A zero CStr (not produced by any constructor) yields the pointer of Empty.
func (c CStr) Ptr() *byte {
	if len(c) == 0 {
		return unsafe.StringData(string(Empty))
	}

	return unsafe.StringData(string(c))
}

// UnsafePointer is Ptr as an unsafe.Pointer.
func (c CStr) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(c.Ptr())
}
