package cstr_test

import (
	"cstrgen/pkg/cstr"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindFirstNull(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		index int
		found bool
	}{
		{name: "nil", in: nil, index: -1},
		{name: "empty", in: []byte{}, index: -1},
		{name: "no null", in: []byte("/dev/ptmx"), index: -1},
		{name: "single null", in: []byte{0}, index: 0, found: true},
		{name: "leading null", in: []byte("\x00abc"), index: 0, found: true},
		{name: "interior null", in: []byte("Hell\x00, world"), index: 4, found: true},
		{name: "first of two", in: []byte("ab\x00cd\x00"), index: 2, found: true},
		{name: "trailing null", in: []byte("abc\x00"), index: 3, found: true},
		{name: "high bytes", in: []byte{0xff, 0x80, 0x01}, index: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := cstr.FindFirstNull(tt.in)
			require.Equal(t, tt.found, ok)
			require.Equal(t, tt.index, i)

			// strings must agree with byte slices
			i, ok = cstr.FindFirstNull(string(tt.in))
			require.Equal(t, tt.found, ok)
			require.Equal(t, tt.index, i)
		})
	}
}

func TestFindFirstNullProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		b := make([]byte, rng.IntN(64))
		for i := range b {
			// bias towards nulls so both branches are exercised
			if rng.IntN(8) != 0 {
				b[i] = byte(1 + rng.IntN(255))
			}
		}

		i, ok := cstr.FindFirstNull(b)
		if !ok {
			require.Equal(t, -1, i)
			require.NotContains(t, string(b), "\x00")

			continue
		}
		require.Zero(t, b[i])
		for j := range i {
			require.NotZero(t, b[j], "byte %d before reported index %d is null", j, i)
		}
	}
}
