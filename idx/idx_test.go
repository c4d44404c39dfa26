package idx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexsoup/difbuilder/wire"
)

func TestPossiblyNullSurfaceIndexRoundTrip(t *testing.T) {
	cases := []PossiblyNullSurfaceIndex{
		NonNullSurface(SurfaceIndex(7)),
		NullSurface(NullSurfaceIndex(3)),
	}
	for _, c := range cases {
		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		c.Write(w)
		require.NoError(t, w.Err())

		r := wire.NewReader(&buf)
		got := ReadPossiblyNullSurfaceIndex(r)
		require.NoError(t, r.Err())
		assert.Equal(t, c, got)
	}
}

func TestBSPIndexRoundTripModernVersion(t *testing.T) {
	in := BSPIndex{Index: 12345, Leaf: true, Solid: false}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	in.Write(w, 14)
	require.NoError(t, w.Err())

	r := wire.NewReader(&buf)
	out := ReadBSPIndex(r, 14)
	require.NoError(t, r.Err())
	assert.Equal(t, in, out)
}

func TestBSPIndexRoundTripLegacyVersion(t *testing.T) {
	in := BSPIndex{Index: 99, Leaf: false, Solid: true}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	in.Write(w, 3)
	require.NoError(t, w.Err())

	r := wire.NewReader(&buf)
	out := ReadBSPIndex(r, 3)
	require.NoError(t, r.Err())
	assert.Equal(t, in, out)
}

func TestTypedIndexRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	PlaneIndex(4321).Write(w)
	PointIndex(987654).Write(w)
	require.NoError(t, w.Err())

	r := wire.NewReader(&buf)
	assert.Equal(t, PlaneIndex(4321), ReadPlaneIndex(r))
	assert.Equal(t, PointIndex(987654), ReadPointIndex(r))
	require.NoError(t, r.Err())
}
