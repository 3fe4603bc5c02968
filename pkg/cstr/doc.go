// Package cstr provides CStr, a trusted view over a null-terminated byte
// sequence, and the null scanner used to establish its invariant.
//
// A CStr always ends with exactly one null byte and contains no other null
// byte. Values built at run time go through the checked constructors
// (New, FromBytesWithNul, FromStringWithNul). Values emitted by cstrgen are
// typed string constants that were already validated during generation, so
// they skip the check:
//
//	const DevPtmx cstr.CStr = "/dev/ptmx\x00"
//
// Accessors never copy; Ptr returns a pointer suitable for passing to native
// APIs that expect a char pointer.
package cstr
