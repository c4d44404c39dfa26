package geom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexsoup/difbuilder/wire"
)

func TestPoint3FRoundTrip(t *testing.T) {
	p := Point3F{X: 1.5, Y: -2.25, Z: 3.125}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	p.Write(w)
	require.NoError(t, w.Err())

	r := wire.NewReader(&buf)
	got := ReadPoint3F(r)
	require.NoError(t, r.Err())
	assert.Equal(t, p, got)
}

func TestPlaneFromTriangle(t *testing.T) {
	v0 := Point3F{0, 0, 0}
	v1 := Point3F{1, 0, 0}
	v2 := Point3F{0, 1, 0}
	plane := PlaneFromTriangle(v0, v1, v2)
	assert.InDelta(t, 0, plane.Normal.X, 1e-5)
	assert.InDelta(t, 0, plane.Normal.Y, 1e-5)
	assert.InDelta(t, 1, float64(absf32(plane.Normal.Z)), 1e-5)
	for _, v := range []Point3F{v0, v1, v2} {
		assert.InDelta(t, 0, plane.DistanceToPoint(v), 1e-4)
	}
}

func TestBoxFromVertices(t *testing.T) {
	verts := []Point3F{{-1, -2, -3}, {4, 5, 6}, {0, 0, 0}}
	b := BoxFromVertices(verts)
	assert.Equal(t, Point3F{-1, -2, -3}, b.Min)
	assert.Equal(t, Point3F{4, 5, 6}, b.Max)
	assert.True(t, b.Contains(Point3F{0, 0, 0}))
	assert.False(t, b.Contains(Point3F{10, 10, 10}))
}

func TestMatrixFRoundTrip(t *testing.T) {
	m := IdentityMatrix()
	m.M[0][3] = 12.5
	m.M[2][1] = -4
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	m.Write(w)
	require.NoError(t, w.Err())

	r := wire.NewReader(&buf)
	got := ReadMatrixF(r)
	require.NoError(t, r.Err())
	assert.Equal(t, m, got)
}

func TestOrdPointEquality(t *testing.T) {
	a := NewOrdPoint(Point3F{1, 2, 3}, DefaultPointEpsilon)
	b := NewOrdPoint(Point3F{1 + 1e-7, 2, 3}, DefaultPointEpsilon)
	c := NewOrdPoint(Point3F{1.1, 2, 3}, DefaultPointEpsilon)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestOrdPointHashKeyStableUnderEpsilon(t *testing.T) {
	a := NewOrdPoint(Point3F{0.0000001, 0, 0}, DefaultPointEpsilon)
	b := NewOrdPoint(Point3F{-0.0000001, 0, 0}, DefaultPointEpsilon)
	require.True(t, a.Equal(b))
	// equal points must land in the same bucket or one another's neighbor set
	found := false
	bKey := b.HashKey()
	for _, k := range a.NeighborKeys() {
		if k == bKey {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestOrdPlaneFEquality(t *testing.T) {
	a := NewOrdPlaneF(PlaneF{Normal: Point3F{0, 0, 1}, Distance: 5}, DefaultPlaneEpsilon)
	b := NewOrdPlaneF(PlaneF{Normal: Point3F{0, 0, 1}, Distance: 5 + 1e-6}, DefaultPlaneEpsilon)
	c := NewOrdPlaneF(PlaneF{Normal: Point3F{0, 1, 0}, Distance: 5}, DefaultPlaneEpsilon)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestOrdPlaneFHashKeyStableUnderEpsilon(t *testing.T) {
	a := NewOrdPlaneF(PlaneF{Normal: Point3F{0, 0, 1}, Distance: 0.0000001}, DefaultPlaneEpsilon)
	b := NewOrdPlaneF(PlaneF{Normal: Point3F{0, 0, 1}, Distance: -0.0000001}, DefaultPlaneEpsilon)
	require.True(t, a.Equal(b))
	// equal planes must land in the same bucket or one another's neighbor set
	found := false
	bKey := b.HashKey()
	for _, k := range a.NeighborKeys() {
		if k == bKey {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestOrdTexGenEquality(t *testing.T) {
	a := NewOrdTexGen(TexGenEq{PlaneX: [4]float32{1, 0, 0, 0}, PlaneY: [4]float32{0, 1, 0, 0}}, DefaultTexGenEpsilon)
	b := NewOrdTexGen(TexGenEq{PlaneX: [4]float32{1 + 1e-6, 0, 0, 0}, PlaneY: [4]float32{0, 1, 0, 0}}, DefaultTexGenEpsilon)
	c := NewOrdTexGen(TexGenEq{PlaneX: [4]float32{1.1, 0, 0, 0}, PlaneY: [4]float32{0, 1, 0, 0}}, DefaultTexGenEpsilon)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
