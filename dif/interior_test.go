package dif

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
	"github.com/vertexsoup/difbuilder/wire"
)

func TestInteriorRoundTripSingleTriangle(t *testing.T) {
	v := NewMBGVersion()
	in := &Interior{
		BoundingBox:       geom.BoxFromVertices([]geom.Point3F{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}),
		BoundingSphere:    geom.SphereF{Radius: 2},
		Normals:           []geom.Point3F{{X: 0, Y: 0, Z: 1}},
		Planes:            []Plane{{NormalIndex: 0, PlaneDistance: 0}},
		Points:            []geom.Point3F{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		PointVisibility:   []uint8{0xFF, 0xFF, 0xFF},
		TexGenEqs:         []TexGenEq{{PlaneX: geom.PlaneF{Normal: geom.Point3F{X: 1}}, PlaneY: geom.PlaneF{Normal: geom.Point3F{Y: 1}}}},
		MaterialNames:     []string{"grid512"},
		Indices:           []idx.PointIndex{0, 1, 2},
		WindingIndices:    []WindingIndex{{WindingStart: 0, WindingCount: 3}},
		Surfaces: []Surface{
			{WindingStart: 0, WindingCount: 3, PlaneIndex: 0, TextureIndex: 0, TexGenIndex: 0},
		},
		BaseAmbientColor:  geom.ColorI{A: 255},
		AlarmAmbientColor: geom.ColorI{A: 255},
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, in.Write(w, v))
	require.NoError(t, w.Err())

	r := wire.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := ReadInterior(r, &Version{})
	require.NoError(t, err)
	assert.Equal(t, in.Points, got.Points)
	assert.Equal(t, in.MaterialNames, got.MaterialNames)
	require.Len(t, got.Surfaces, 1)
	assert.Equal(t, uint32(3), got.Surfaces[0].WindingCount)
}

func TestSurfaceRejectsOutOfBoundsWinding(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.U32(0)  // winding_start
	w.U8(5)   // winding_count (> indices_len)
	w.U16(0)  // plane_index
	w.U16(0)  // texture_index
	w.U32(0)  // tex_gen_index

	r := wire.NewReader(bytes.NewReader(buf.Bytes()))
	v := NewMBGVersion()
	_, err := readSurface(r, v, 2, 1, 1, 1)
	assert.ErrorIs(t, err, ErrSurfaceIndexOOB)
}

func TestBSPIndexModernVsLegacyWidth(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	b := idx.BSPIndex{Index: 5, Leaf: true, Solid: true}
	b.Write(w, 14)
	assert.Equal(t, 4, buf.Len())

	buf.Reset()
	b.Write(w, 13)
	assert.Equal(t, 2, buf.Len())
}
