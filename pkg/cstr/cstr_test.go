package cstr_test

import (
	"cstrgen/pkg/cstr"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// devPtmx is spelled the way generated code spells it.
const devPtmx cstr.CStr = "/dev/ptmx\x00"

// constants of the view type compose in further constant expressions.
const devPtmxLen = len(devPtmx)

func TestConstantView(t *testing.T) {
	require.Equal(t, 10, devPtmxLen)
	require.Equal(t, "/dev/ptmx", devPtmx.String())
	require.Equal(t, 9, devPtmx.Len())
	require.Equal(t,
		[]byte{0x2f, 0x64, 0x65, 0x76, 0x2f, 0x70, 0x74, 0x6d, 0x78, 0x00},
		devPtmx.BytesWithNul())

	checked, err := cstr.FromStringWithNul(string(devPtmx))
	require.NoError(t, err)
	require.Equal(t, devPtmx, checked)
}

func TestNew(t *testing.T) {
	c, err := cstr.New("/dev/ptmx")
	require.NoError(t, err)
	require.Equal(t, devPtmx, c)

	c, err = cstr.New("")
	require.NoError(t, err)
	require.Equal(t, cstr.Empty, c)
	require.True(t, c.IsEmpty())
	require.Equal(t, []byte{0}, c.BytesWithNul())

	_, err = cstr.New("Hell\x00, world")
	var nulErr *cstr.InteriorNulError
	require.ErrorAs(t, err, &nulErr)
	require.Equal(t, 4, nulErr.Offset)
	require.EqualError(t, err, "cstr: interior null byte at position 4")
}

func TestMustNew(t *testing.T) {
	require.NotPanics(t, func() {
		require.Equal(t, devPtmx, cstr.MustNew("/dev/ptmx"))
	})
	require.Panics(t, func() {
		cstr.MustNew("ab\x00cd")
	})
}

func TestFromBytesWithNul(t *testing.T) {
	tests := []struct {
		name   string
		in     []byte
		want   cstr.CStr
		offset int
		err    error
	}{
		{name: "valid", in: []byte("abc\x00"), want: "abc\x00"},
		{name: "only terminator", in: []byte{0}, want: cstr.Empty},
		{name: "missing terminator", in: []byte("abc"), err: cstr.ErrNotNulTerminated},
		{name: "empty", in: nil, err: cstr.ErrNotNulTerminated},
		{name: "interior null", in: []byte("ab\x00cd\x00"), offset: 2},
		{name: "double terminator", in: []byte("ab\x00\x00"), offset: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cstr.FromBytesWithNul(tt.in)
			switch {
			case tt.err != nil:
				require.ErrorIs(t, err, tt.err)
			case tt.want == "":
				var nulErr *cstr.InteriorNulError
				require.ErrorAs(t, err, &nulErr)
				require.Equal(t, tt.offset, nulErr.Offset)
			default:
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFromBytesWithNulUnchecked(t *testing.T) {
	b := []byte("x\x00")
	c := cstr.FromBytesWithNulUnchecked(b)
	require.Equal(t, cstr.CStr("x\x00"), c)

	// the view owns its data
	b[0] = 'y'
	require.Equal(t, "x", c.String())
}

func TestAccessorsAreZeroCopy(t *testing.T) {
	require.Equal(t, unsafe.StringData(string(devPtmx)), devPtmx.Ptr())
	require.Equal(t, unsafe.Pointer(devPtmx.Ptr()), devPtmx.UnsafePointer())
	require.Equal(t, devPtmx.Ptr(), &devPtmx.Bytes()[0])
	require.Equal(t, []byte("/dev/ptmx"), devPtmx.Bytes())

	// reading through the pointer finds the terminator right after the text
	end := unsafe.Add(devPtmx.UnsafePointer(), devPtmx.Len())
	require.Zero(t, *(*byte)(end))
}

func TestZeroValue(t *testing.T) {
	var c cstr.CStr
	require.Equal(t, 0, c.Len())
	require.Equal(t, "", c.String())
	require.Nil(t, c.Bytes())
	require.Nil(t, c.BytesWithNul())
	require.Zero(t, *c.Ptr())
}
