package geom

import "math"

// DefaultPointEpsilon is the default tolerance for OrdPoint equality.
const DefaultPointEpsilon = 1e-6

// DefaultPlaneEpsilon is the default tolerance for OrdPlaneF distance
// comparisons.
const DefaultPlaneEpsilon = 1e-5

// DefaultTexGenEpsilon is the default tolerance for OrdTexGen comparisons.
const DefaultTexGenEpsilon = 1e-5

// OrdPoint wraps a Point3F for epsilon-tolerant dedup-map use. Equal when
// every axis is within Epsilon; the hash snaps each axis to a grid of size
// >= 2*Epsilon (see spec's Design Notes on float hashing) so that any two
// points that compare equal land in the same bucket or in adjacent ones —
// lookups therefore also probe the 26 neighboring buckets to catch points
// that snapped to an adjacent cell near a boundary.
type OrdPoint struct {
	P       Point3F
	Epsilon float32
}

func NewOrdPoint(p Point3F, epsilon float32) OrdPoint {
	if epsilon <= 0 {
		epsilon = DefaultPointEpsilon
	}
	return OrdPoint{P: p, Epsilon: epsilon}
}

func (o OrdPoint) Equal(other OrdPoint) bool {
	eps := o.Epsilon
	return absf32(o.P.X-other.P.X) <= eps &&
		absf32(o.P.Y-other.P.Y) <= eps &&
		absf32(o.P.Z-other.P.Z) <= eps
}

// bucketCell is the grid cell for a given point's axis, sized to 2*epsilon
// so that two points within epsilon of each other fall in the same or an
// adjacent cell.
func bucketCell(v, epsilon float32) int32 {
	cell := 2 * epsilon
	if cell <= 0 {
		cell = DefaultPointEpsilon * 2
	}
	return int32(math.Floor(float64(v / cell)))
}

// HashKey returns a coarse bucket key for o.P. Because the grid cell size
// is >= 2*Epsilon, two equal points produce the same key or adjacent keys
// (see NeighborKeys).
func (o OrdPoint) HashKey() [3]int32 {
	return [3]int32{
		bucketCell(o.P.X, o.Epsilon),
		bucketCell(o.P.Y, o.Epsilon),
		bucketCell(o.P.Z, o.Epsilon),
	}
}

// NeighborKeys returns HashKey plus its 26 adjacent cells, for callers doing
// a dedup lookup that must also catch matches which snapped to a
// neighboring bucket across a cell boundary.
func (o OrdPoint) NeighborKeys() [][3]int32 {
	base := o.HashKey()
	keys := make([][3]int32, 0, 27)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				keys = append(keys, [3]int32{base[0] + dx, base[1] + dy, base[2] + dz})
			}
		}
	}
	return keys
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// OrdPlaneF wraps a PlaneF for epsilon-tolerant dedup. Two planes are equal
// when their normals' dot product exceeds 0.999 and their distances differ
// by less than Epsilon.
type OrdPlaneF struct {
	Plane   PlaneF
	Epsilon float32
}

func NewOrdPlaneF(p PlaneF, epsilon float32) OrdPlaneF {
	if epsilon <= 0 {
		epsilon = DefaultPlaneEpsilon
	}
	return OrdPlaneF{Plane: p, Epsilon: epsilon}
}

func (o OrdPlaneF) Equal(other OrdPlaneF) bool {
	dot := o.Plane.Normal.Dot(other.Plane.Normal)
	return dot > 0.999 && absf32(o.Plane.Distance-other.Plane.Distance) < o.Epsilon
}

// planeNormalGridCell sizes the normal-magnitude axis of the plane grid.
// Equal requires dot(n1, n2) > 0.999, which for unit vectors implies
// |n1-n2| < sqrt(2*(1-0.999)) ~= 0.045 on every axis; 0.1 leaves headroom so
// two equal planes' "mul" values never land more than one cell apart.
const planeNormalGridCell = 0.1

// gridCell snaps the plane into a 2D grid: the largest normal-component
// magnitude (quantized to planeNormalGridCell) and the absolute distance
// (quantized to a cell of size >= 2*Epsilon, mirroring OrdPoint.bucketCell).
func (o OrdPlaneF) gridCell() (int32, int32) {
	distCell := 2 * o.Epsilon
	if distCell <= 0 {
		distCell = DefaultPlaneEpsilon * 2
	}
	n := o.Plane.Normal
	mul := maxf32(absf32(n.X), absf32(n.Y), absf32(n.Z))
	dist := absf32(o.Plane.Distance)
	return int32(math.Floor(float64(mul / planeNormalGridCell))), int32(math.Floor(float64(dist / distCell)))
}

// HashKey returns a coarse bucket key for o.Plane. Because both grid cells
// are sized to exceed the Equal thresholds, two equal planes always produce
// the same or an adjacent key (see NeighborKeys).
func (o OrdPlaneF) HashKey() [2]int32 {
	mul, dist := o.gridCell()
	return [2]int32{mul, dist}
}

// NeighborKeys returns HashKey plus its 8 adjacent cells, for callers doing
// a dedup lookup that must also catch matches which snapped to a
// neighboring bucket across a cell boundary.
func (o OrdPlaneF) NeighborKeys() [][2]int32 {
	base := o.HashKey()
	keys := make([][2]int32, 0, 9)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			keys = append(keys, [2]int32{base[0] + dx, base[1] + dy})
		}
	}
	return keys
}

func maxf32(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// TexGenEq is a single planar texture-generation equation pair (see dif
// package for the full TexGenEq wire record); geom only needs the plane
// coefficients for epsilon comparison.
type TexGenEq struct {
	PlaneX, PlaneY [4]float32
}

// OrdTexGen wraps a TexGenEq for epsilon-tolerant dedup: equal when every
// coefficient of both planes differs by less than Epsilon.
type OrdTexGen struct {
	TexGen  TexGenEq
	Epsilon float32
}

func NewOrdTexGen(t TexGenEq, epsilon float32) OrdTexGen {
	if epsilon <= 0 {
		epsilon = DefaultTexGenEpsilon
	}
	return OrdTexGen{TexGen: t, Epsilon: epsilon}
}

func (o OrdTexGen) Equal(other OrdTexGen) bool {
	for i := 0; i < 4; i++ {
		if absf32(o.TexGen.PlaneX[i]-other.TexGen.PlaneX[i]) >= o.Epsilon {
			return false
		}
		if absf32(o.TexGen.PlaneY[i]-other.TexGen.PlaneY[i]) >= o.Epsilon {
			return false
		}
	}
	return true
}
