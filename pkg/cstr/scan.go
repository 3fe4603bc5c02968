package cstr

// FindFirstNull returns the index of the first null byte in b and true, or
// -1 and false if b contains none.
//
// It is a plain bounded index loop so it never allocates and can be used on
// both strings and byte slices without conversion.
func FindFirstNull[T ~string | ~[]byte](b T) (int, bool) {
	for i := 0; i < len(b); i++ {
		if b[i] == 0 {
			return i, true
		}
	}

	return -1, false
}
