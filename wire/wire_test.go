package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.U8(0xAB)
	w.I8(-5)
	w.U16(0xBEEF)
	w.I16(-1000)
	w.U32(0xDEADBEEF)
	w.I32(-123456)
	w.U64(0x1122334455667788)
	w.I64(-1)
	w.F32(3.14159)
	w.F64(2.718281828)
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	assert.Equal(t, uint8(0xAB), r.U8())
	assert.Equal(t, int8(-5), r.I8())
	assert.Equal(t, uint16(0xBEEF), r.U16())
	assert.Equal(t, int16(-1000), r.I16())
	assert.Equal(t, uint32(0xDEADBEEF), r.U32())
	assert.Equal(t, int32(-123456), r.I32())
	assert.Equal(t, uint64(0x1122334455667788), r.U64())
	assert.Equal(t, int64(-1), r.I64())
	assert.InDelta(t, float32(3.14159), r.F32(), 0.00001)
	assert.InDelta(t, 2.718281828, r.F64(), 0.000000001)
	require.NoError(t, r.Err())
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.String("interior00")
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	assert.Equal(t, "interior00", r.String())
	require.NoError(t, r.Err())
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.String(string(make([]byte, 256)))
	assert.Error(t, w.Err())
}

func TestTruncatedStream(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	r.U32()
	assert.ErrorIs(t, r.Err(), ErrTruncatedStream)
}

func TestVecFnRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	WriteVecFn(w, []uint32{1, 2, 3, 4}, func(w *Writer, v uint32) { w.U32(v) })
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	got := ReadVecFn(r, func(r *Reader) uint32 { return r.U32() })
	require.NoError(t, r.Err())
	assert.Equal(t, []uint32{1, 2, 3, 4}, got)
}

func TestVecFnNarrowHighBit(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	// length with high bit set plus one parameter byte, then narrow u8 elements
	w.U32(uint32(len([]uint32{10, 20, 30})) | highBit)
	w.U8(0)
	w.U8(10)
	w.U8(20)
	w.U8(30)
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	got := ReadVecFnNarrow(r,
		func(r *Reader) uint32 { return r.U32() },
		func(r *Reader, param uint8) uint32 { return uint32(r.U8()) },
	)
	require.NoError(t, r.Err())
	assert.Equal(t, []uint32{10, 20, 30}, got)
}

func TestVecExtraRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	WriteVecExtra(w, []uint16{7, 8, 9}, uint32(42),
		func(w *Writer, extra uint32) { w.U32(extra) },
		func(w *Writer, v uint16) { w.U16(v) },
	)
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	items, extra := ReadVecExtra(r,
		func(r *Reader) uint32 { return r.U32() },
		func(r *Reader) uint16 { return r.U16() },
	)
	require.NoError(t, r.Err())
	assert.Equal(t, []uint16{7, 8, 9}, items)
	assert.Equal(t, uint32(42), extra)
}

func TestVecForceNarrowRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	WriteVecForceNarrow(w, []uint32{4, 5, 6}, func(w *Writer, v uint32) { w.U16(uint16(v)) })
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	got := ReadVecForceNarrow(r, func(r *Reader) uint32 { return uint32(r.U16()) })
	require.NoError(t, r.Err())
	assert.Equal(t, []uint32{4, 5, 6}, got)
}

func TestDictionaryOrderedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	d := map[string]string{"diffuse": "base.rock01", "detail": ""}
	w.DictionaryOrdered([]string{"diffuse", "detail"}, d)
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	got := r.Dictionary()
	require.NoError(t, r.Err())
	assert.Equal(t, d, got)
}

func TestPNGRoundTrip(t *testing.T) {
	iend := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.PNG(iend)
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	got := r.PNG()
	require.NoError(t, r.Err())
	assert.Equal(t, iend, got)
}
