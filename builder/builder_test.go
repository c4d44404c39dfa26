package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/progress"
)

func addTri(t *testing.T, b *Builder, v0, v1, v2 geom.Point3F, material string) {
	t.Helper()
	normal := geom.PlaneFromTriangle(v0, v1, v2).Normal
	uv := geom.Point2F{}
	require.NoError(t, b.AddTriangle(v0, v1, v2, uv, uv, uv, normal, material))
}

// addUnitCube appends 12 triangles (2 per face, outward-facing) forming the
// axis-aligned cube spanning [0,1]^3, translated by offset.
func addUnitCube(t *testing.T, b *Builder, material string, offset geom.Point3F) {
	t.Helper()
	c := func(x, y, z float32) geom.Point3F { return geom.Point3F{X: x, Y: y, Z: z}.Add(offset) }

	faces := [][4]geom.Point3F{
		{c(0, 0, 0), c(0, 1, 0), c(0, 1, 1), c(0, 0, 1)}, // -X
		{c(1, 0, 0), c(1, 0, 1), c(1, 1, 1), c(1, 1, 0)}, // +X
		{c(0, 0, 0), c(0, 0, 1), c(1, 0, 1), c(1, 0, 0)}, // -Y
		{c(0, 1, 0), c(1, 1, 0), c(1, 1, 1), c(0, 1, 1)}, // +Y
		{c(0, 0, 0), c(1, 0, 0), c(1, 1, 0), c(0, 1, 0)}, // -Z
		{c(0, 0, 1), c(0, 1, 1), c(1, 1, 1), c(1, 0, 1)}, // +Z
	}
	for _, f := range faces {
		addTri(t, b, f[0], f[1], f[2], material)
		addTri(t, b, f[0], f[2], f[3], material)
	}
}

func TestAddTriangleRejectsInvalidVertex(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	bad := geom.Point3F{X: float32(nan())}
	err := b.AddTriangle(bad, geom.Point3F{X: 1}, geom.Point3F{Y: 1}, geom.Point2F{}, geom.Point2F{}, geom.Point2F{}, geom.Point3F{Z: 1}, "mat")
	assert.ErrorIs(t, err, ErrInvalidVertex)
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestAddTriangleRejectsNonUnitNormal(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	err := b.AddTriangle(
		geom.Point3F{}, geom.Point3F{X: 1}, geom.Point3F{Y: 1},
		geom.Point2F{}, geom.Point2F{}, geom.Point2F{},
		geom.Point3F{Z: 2}, "mat",
	)
	assert.ErrorIs(t, err, ErrNonUnitNormal)
}

func TestBuildTetrahedron(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	v0 := geom.Point3F{X: 0, Y: 0, Z: 0}
	v1 := geom.Point3F{X: 1, Y: 0, Z: 0}
	v2 := geom.Point3F{X: 0, Y: 1, Z: 0}
	v3 := geom.Point3F{X: 0, Y: 0, Z: 1}

	addTri(t, b, v0, v2, v1, "Mat0")
	addTri(t, b, v0, v1, v3, "Mat0")
	addTri(t, b, v0, v3, v2, "Mat0")
	addTri(t, b, v1, v2, v3, "Mat0")

	interior, report, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 4, len(interior.Surfaces))
	assert.Equal(t, 4, len(interior.Points))
	assert.Equal(t, 4, len(interior.Planes))
	assert.Len(t, interior.ConvexHulls, 1)
	assert.Equal(t, 4, report.Total)
	assert.NotEmpty(t, interior.BSPNodes)
	assert.Equal(t, 1, len(interior.Zones))
	assert.Equal(t, uint32(4), interior.Zones[0].SurfaceCount)

	// Bounding box is inflated by 3 units on every side of the tight box.
	assert.InDelta(t, -3, interior.BoundingBox.Min.X, 1e-4)
	assert.InDelta(t, 4, interior.BoundingBox.Max.X, 1e-4)
}

func TestBuildAxisAlignedCubeDedupsPointsAndPlanes(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	addUnitCube(t, b, "Mat0", geom.Point3F{})

	interior, report, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 8, len(interior.Points), "a unit cube has 8 distinct corners")
	assert.Equal(t, 6, len(interior.Planes), "a unit cube has 6 distinct face planes")
	assert.Equal(t, 12, len(interior.Surfaces))
	assert.Equal(t, 12, report.Total)
	assert.Equal(t, 1, len(interior.MaterialNames))
}

func TestBuildTwoDisjointCubesProducesSeparateHulls(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	addUnitCube(t, b, "Mat0", geom.Point3F{})
	addUnitCube(t, b, "Mat0", geom.Point3F{X: 20})

	interior, _, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 16, len(interior.Points))
	assert.Equal(t, 24, len(interior.Surfaces))
	assert.GreaterOrEqual(t, len(interior.ConvexHulls), 2, "two far-apart cubes must not be coalesced into one hull")
}

func TestExportPlaneReturnsFlippedIndexForInverseNormal(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	p := geom.PlaneF{Normal: geom.Point3F{Z: 1}, Distance: -1}
	first, err := b.exportPlane(p)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), uint16(first)&0x8000)

	inv := geom.PlaneF{Normal: geom.Point3F{Z: -1}, Distance: 1}
	second, err := b.exportPlane(inv)
	require.NoError(t, err)
	assert.NotEqual(t, uint16(0), uint16(second)&0x8000, "the inverse of an already-seen plane must be reported via the flip bit, not a new entry")
	assert.Equal(t, 1, len(b.interior.Planes), "no new plane should be allocated for the exact inverse")
}

func TestExportPlaneDedupsAcrossGridCellBoundary(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	// Distances straddle the distance-axis grid cell boundary at 2*PlaneEpsilon
	// (cell size is 2*PlaneEpsilon over |distance|), while staying well within
	// PlaneEpsilon of each other: export_plane must still treat them as the
	// same plane.
	p := geom.PlaneF{Normal: geom.Point3F{Z: 1}, Distance: 1.9999e-5}
	q := geom.PlaneF{Normal: geom.Point3F{Z: 1}, Distance: 2.0001e-5}

	first, err := b.exportPlane(p)
	require.NoError(t, err)
	second, err := b.exportPlane(q)
	require.NoError(t, err)

	assert.Equal(t, first, second, "export_plane(p) called twice with an epsilon-equal plane must return the same index, even across a hash-bucket boundary")
	assert.Equal(t, 1, len(b.interior.Planes))
}

func TestMBOnlyBuildUsesStubPolyListEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MBOnly = true
	b := NewBuilder(cfg, progress.NoopSink{})
	addUnitCube(t, b, "Mat0", geom.Point3F{})

	interior, _, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 1, len(interior.PolyListPlaneIndices))
	assert.Equal(t, 1, len(interior.PolyListPointIndices))
	assert.Equal(t, 1, len(interior.PolyListStringCharacters))
}

func TestRaycastCoverageHitsEveryCubeSurface(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	addUnitCube(t, b, "Mat0", geom.Point3F{})

	_, report, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 12, report.Total)
	assert.GreaterOrEqual(t, report.HitAreaPercentage, float32(99), "a closed solid's BSP tree must cover at least 99% of its surfaces (spec.md 8, property 7)")
}

func TestNullSurfaceMaterialExportsNullSurfaceInsteadOfSurface(t *testing.T) {
	b := NewBuilder(DefaultConfig(), progress.NoopSink{})
	v0 := geom.Point3F{X: 0, Y: 0, Z: 0}
	v1 := geom.Point3F{X: 1, Y: 0, Z: 0}
	v2 := geom.Point3F{X: 0, Y: 1, Z: 0}
	v3 := geom.Point3F{X: 0, Y: 0, Z: 1}

	addTri(t, b, v0, v2, v1, "NULL") // base face, invisible collision-only
	addTri(t, b, v0, v1, v3, "Mat0")
	addTri(t, b, v0, v3, v2, "Mat0")
	addTri(t, b, v1, v2, v3, "Mat0")

	interior, _, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 1, len(interior.NullSurfaces))
	assert.Equal(t, 3, len(interior.Surfaces))
}
