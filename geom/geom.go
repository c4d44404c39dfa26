// Package geom implements the vector, plane, box, and other primitive
// geometry types the DIF format stores, their wire codecs, and the
// epsilon-tolerant dedup wrappers (OrdPoint/OrdPlaneF/OrdTexGen) used while
// building an interior from a triangle soup.
//
// Types and wire layouts are grounded on original_source/libdif/src/types.rs
// (cgmath Vector2/Vector3/Quaternion/Matrix4 read as flat f32 fields).
package geom

import (
	"math"

	"github.com/vertexsoup/difbuilder/wire"
)

type Point2F struct {
	X, Y float32
}

func ReadPoint2F(r *wire.Reader) Point2F {
	return Point2F{X: r.F32(), Y: r.F32()}
}

func (p Point2F) Write(w *wire.Writer) {
	w.F32(p.X)
	w.F32(p.Y)
}

type Point2I struct {
	X, Y int32
}

func ReadPoint2I(r *wire.Reader) Point2I {
	return Point2I{X: r.I32(), Y: r.I32()}
}

func (p Point2I) Write(w *wire.Writer) {
	w.I32(p.X)
	w.I32(p.Y)
}

type Point3F struct {
	X, Y, Z float32
}

func ReadPoint3F(r *wire.Reader) Point3F {
	return Point3F{X: r.F32(), Y: r.F32(), Z: r.F32()}
}

func (p Point3F) Write(w *wire.Writer) {
	w.F32(p.X)
	w.F32(p.Y)
	w.F32(p.Z)
}

func (p Point3F) Add(o Point3F) Point3F { return Point3F{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Point3F) Sub(o Point3F) Point3F { return Point3F{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }
func (p Point3F) Scale(s float32) Point3F {
	return Point3F{p.X * s, p.Y * s, p.Z * s}
}
func (p Point3F) Dot(o Point3F) float32 {
	return p.X*o.X + p.Y*o.Y + p.Z*o.Z
}
func (p Point3F) Cross(o Point3F) Point3F {
	return Point3F{
		X: p.Y*o.Z - p.Z*o.Y,
		Y: p.Z*o.X - p.X*o.Z,
		Z: p.X*o.Y - p.Y*o.X,
	}
}
func (p Point3F) Length() float32 {
	return float32(math.Sqrt(float64(p.Dot(p))))
}
func (p Point3F) Normalize() Point3F {
	l := p.Length()
	if l == 0 {
		return p
	}
	return p.Scale(1 / l)
}

// BoxF is an axis-aligned bounding box.
type BoxF struct {
	Min, Max Point3F
}

func ReadBoxF(r *wire.Reader) BoxF {
	return BoxF{Min: ReadPoint3F(r), Max: ReadPoint3F(r)}
}

func (b BoxF) Write(w *wire.Writer) {
	b.Min.Write(w)
	b.Max.Write(w)
}

func (b BoxF) Center() Point3F { return b.Min.Add(b.Max).Scale(0.5) }
func (b BoxF) Extent() Point3F { return b.Max.Sub(b.Min) }

func (b BoxF) Union(o BoxF) BoxF {
	return BoxF{
		Min: Point3F{min32(b.Min.X, o.Min.X), min32(b.Min.Y, o.Min.Y), min32(b.Min.Z, o.Min.Z)},
		Max: Point3F{max32(b.Max.X, o.Max.X), max32(b.Max.Y, o.Max.Y), max32(b.Max.Z, o.Max.Z)},
	}
}

func (b BoxF) UnionPoint(p Point3F) BoxF {
	return BoxF{
		Min: Point3F{min32(b.Min.X, p.X), min32(b.Min.Y, p.Y), min32(b.Min.Z, p.Z)},
		Max: Point3F{max32(b.Max.X, p.X), max32(b.Max.Y, p.Y), max32(b.Max.Z, p.Z)},
	}
}

func (b BoxF) Contains(p Point3F) bool {
	return p.X >= b.Min.X && p.Y >= b.Min.Y && p.Z >= b.Min.Z &&
		p.X <= b.Max.X && p.Y <= b.Max.Y && p.Z <= b.Max.Z
}

func BoxFromVertices(vertices []Point3F) BoxF {
	b := BoxF{
		Min: Point3F{X: float32(math.Inf(1)), Y: float32(math.Inf(1)), Z: float32(math.Inf(1))},
		Max: Point3F{X: float32(math.Inf(-1)), Y: float32(math.Inf(-1)), Z: float32(math.Inf(-1))},
	}
	for _, v := range vertices {
		b = b.UnionPoint(v)
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

type SphereF struct {
	Origin Point3F
	Radius float32
}

func ReadSphereF(r *wire.Reader) SphereF {
	return SphereF{Origin: ReadPoint3F(r), Radius: r.F32()}
}

func (s SphereF) Write(w *wire.Writer) {
	s.Origin.Write(w)
	w.F32(s.Radius)
}

// PlaneF is a normal + signed distance from origin (normal.dot(p) + d == 0
// for any point p on the plane).
type PlaneF struct {
	Normal   Point3F
	Distance float32
}

func ReadPlaneF(r *wire.Reader) PlaneF {
	return PlaneF{Normal: ReadPoint3F(r), Distance: r.F32()}
}

func (p PlaneF) Write(w *wire.Writer) {
	p.Normal.Write(w)
	w.F32(p.Distance)
}

// PlaneFromTriangle builds a plane from a triangle's vertices, using the
// triangle's centroid (not v0) as the point the distance is measured
// against — this matches how the reference builder derives plane distance
// and keeps round-trip plane comparisons stable regardless of winding start.
func PlaneFromTriangle(v0, v1, v2 Point3F) PlaneF {
	normal := v2.Sub(v0).Cross(v1.Sub(v0)).Normalize()
	avg := v0.Add(v1).Add(v2).Scale(1.0 / 3.0)
	distance := -avg.Dot(normal)
	return PlaneF{Normal: normal, Distance: distance}
}

// DistanceToPoint returns the signed distance from p to the plane.
func (p PlaneF) DistanceToPoint(pt Point3F) float32 {
	return p.Normal.Dot(pt) + p.Distance
}

type QuatF struct {
	S       float32
	X, Y, Z float32
}

func ReadQuatF(r *wire.Reader) QuatF {
	return QuatF{S: r.F32(), X: r.F32(), Y: r.F32(), Z: r.F32()}
}

func (q QuatF) Write(w *wire.Writer) {
	w.F32(q.S)
	w.F32(q.X)
	w.F32(q.Y)
	w.F32(q.Z)
}

type ColorI struct {
	R, G, B, A uint8
}

func ReadColorI(r *wire.Reader) ColorI {
	return ColorI{R: r.U8(), G: r.U8(), B: r.U8(), A: r.U8()}
}

func (c ColorI) Write(w *wire.Writer) {
	w.U8(c.R)
	w.U8(c.G)
	w.U8(c.B)
	w.U8(c.A)
}

// MatrixF is a 4x4 matrix, M[row][col], wire-encoded in row-major order.
// (The reference implementation reads 16 column-major floats into a
// column-major matrix type and then transposes it once; the two operations
// cancel out, so the bytes are a straight row-major dump of the matrix a
// caller actually works with.)
type MatrixF struct {
	M [4][4]float32
}

func IdentityMatrix() MatrixF {
	var m MatrixF
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

func ReadMatrixF(r *wire.Reader) MatrixF {
	var m MatrixF
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.M[row][col] = r.F32()
		}
	}
	return m
}

func (m MatrixF) Write(w *wire.Writer) {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			w.F32(m.M[row][col])
		}
	}
}

func ReadDictionary(r *wire.Reader) map[string]string { return r.Dictionary() }

func ReadPNG(r *wire.Reader) []byte { return r.PNG() }
