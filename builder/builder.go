// Package builder turns a triangle soup into a complete dif.Interior:
// plane/point/texgen/texture dedup, convex-hull grouping, hull and
// poly-list export, the coord-bin index, and the BSP tree that backs
// bsp_nodes/bsp_solid_leaves.
//
// Grounded on original_source/libdifbuilder/src/builder.rs's DIFBuilder,
// record-for-record on the add_triangle/build/export_* method set. The
// teacher's store/entity.go EntityCollection[T] supplies the generic,
// insert-or-find-by-key shape reused here (in dedup.go) for the
// point/plane/texgen/texture/emit-string tables, generalized with geom's
// epsilon-tolerant Ord wrappers standing in for EntityKey.
package builder

import (
	"errors"
	"math"

	"github.com/vertexsoup/difbuilder/bsp"
	"github.com/vertexsoup/difbuilder/dif"
	"github.com/vertexsoup/difbuilder/dlog"
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
	"github.com/vertexsoup/difbuilder/progress"
)

var (
	ErrInvalidVertex     = errors.New("builder: vertex position is NaN or infinite")
	ErrNonUnitNormal      = errors.New("builder: supplied normal is not unit length")
	ErrTooManyPlanes      = errors.New("builder: plane table exceeded 0x10000 entries")
)

// Config tunes a Build pass: mb_only switches between the dense non-MBG
// hull poly-list encoding and MBG's one-stub-element form (spec.md 4.7),
// and the epsilon knobs feed straight into the dedup wrappers and the BSP
// splitter.
type Config struct {
	MBOnly       bool
	PointEpsilon float32
	PlaneEpsilon float32
	TexGenEpsilon float32
	BSP          bsp.Config
}

// DefaultConfig matches the reference builder's defaults.
func DefaultConfig() Config {
	return Config{
		MBOnly:        false,
		PointEpsilon:  geom.DefaultPointEpsilon,
		PlaneEpsilon:  geom.DefaultPlaneEpsilon,
		TexGenEpsilon: geom.DefaultTexGenEpsilon,
		BSP:           bsp.DefaultConfig(),
	}
}

// Report summarizes BSP tree quality for a completed build (spec.md 4.9
// "Balance metric" and 4.10 "BSP raycast coverage").
type Report struct {
	BalanceFactor     int
	Hit               int
	Total             int
	HitAreaPercentage float32
}

// triangle is the builder's internal brush representation: a frozen
// snapshot of one AddTriangle call plus its derived plane.
type triangle struct {
	verts    [3]geom.Point3F
	uv       [3]geom.Point2F
	plane    geom.PlaneF
	material string
	id       int
}

// Builder accumulates triangles and waypoints, then produces an Interior in
// one Build call. Lifecycle per spec.md: triangles are appended to builder
// buckets before Build; during Build the interior grows monotonically;
// after Build it is immutable and the Builder should not be reused.
type Builder struct {
	cfg Config

	triangles []triangle
	interior  *dif.Interior

	faceToSurface map[int]idx.PossiblyNullSurfaceIndex
	faceToPlane   map[int]idx.PlaneIndex

	points    *dedupTable[geom.OrdPoint, idx.PointIndex]
	planes    *dedupTable[geom.OrdPlaneF, idx.PlaneIndex]
	normals   *dedupTable[geom.OrdPoint, idx.NormalIndex]
	texGens   *dedupTable[geom.OrdTexGen, idx.TexGenIndex]
	emitStrings map[string]idx.EmitStringIndex

	balanceFactor int
	sink          progress.Sink
}

// NewBuilder creates an empty Builder. A nil sink discards progress events.
func NewBuilder(cfg Config, sink progress.Sink) *Builder {
	if sink == nil {
		sink = progress.NoopSink{}
	}
	return &Builder{
		cfg:           cfg,
		interior:      &dif.Interior{},
		faceToSurface: make(map[int]idx.PossiblyNullSurfaceIndex),
		faceToPlane:   make(map[int]idx.PlaneIndex),
		points:        newDedupTable[geom.OrdPoint, idx.PointIndex](),
		planes:        newDedupTable[geom.OrdPlaneF, idx.PlaneIndex](),
		normals:       newDedupTable[geom.OrdPoint, idx.NormalIndex](),
		texGens:       newDedupTable[geom.OrdTexGen, idx.TexGenIndex](),
		emitStrings:   make(map[string]idx.EmitStringIndex),
		sink:          sink,
	}
}

// AddTriangle appends one triangle to the intake buckets. The normal is
// caller-supplied (not derived from winding); the plane distance is
// -dot(normal, v0) per spec.md 4.2. material is interned into
// interior.MaterialNames on first surface export, not here.
func (b *Builder) AddTriangle(v0, v1, v2 geom.Point3F, uv0, uv1, uv2 geom.Point2F, normal geom.Point3F, material string) error {
	for _, v := range [...]geom.Point3F{v0, v1, v2} {
		if isBadFloat(v.X) || isBadFloat(v.Y) || isBadFloat(v.Z) {
			return ErrInvalidVertex
		}
	}
	if l := normal.Length(); l < 0.999 || l > 1.001 {
		return ErrNonUnitNormal
	}

	b.triangles = append(b.triangles, triangle{
		verts:    [3]geom.Point3F{v0, v1, v2},
		uv:       [3]geom.Point2F{uv0, uv1, uv2},
		plane:    geom.PlaneF{Normal: normal, Distance: -normal.Dot(v0)},
		material: material,
		id:       len(b.triangles),
	})
	return nil
}

func isBadFloat(f float32) bool {
	return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
}

// Build runs the full pipeline (hull grouping/export, BSP tree, coord
// bins, poly lists, raycast coverage) and returns the populated interior
// plus a quality report. The Builder must not be reused afterward.
func (b *Builder) Build() (*dif.Interior, Report, error) {
	box := geom.BoxFromVertices(b.allVertices())
	box.Min = box.Min.Sub(geom.Point3F{X: 3, Y: 3, Z: 3})
	box.Max = box.Max.Add(geom.Point3F{X: 3, Y: 3, Z: 3})
	b.interior.BoundingBox = box
	b.interior.BoundingSphere = boundingSphere(b.allVertices(), box.Center())

	brushStage := dlog.Stage("export_brushes")
	brushStage.Debug("exporting brushes", dlog.F("triangles", len(b.triangles)))
	if err := b.exportBrushes(); err != nil {
		return nil, Report{}, err
	}
	brushStage.Done(dlog.F("surfaces", len(b.interior.Surfaces)), dlog.F("hulls", len(b.interior.ConvexHulls)))

	b.interior.Zones = append(b.interior.Zones, dif.Zone{
		PortalStart:  0,
		PortalCount:  0,
		SurfaceStart: 0,
		SurfaceCount: uint32(len(b.interior.Surfaces)),
	})

	coordBinStage := dlog.Stage("export_coord_bins")
	b.exportCoordBins()
	coordBinStage.Done()

	polyListStage := dlog.Stage("hull_poly_lists")
	if b.cfg.MBOnly {
		b.interior.PolyListPlaneIndices = append(b.interior.PolyListPlaneIndices, 0)
		b.interior.PolyListPointIndices = append(b.interior.PolyListPointIndices, 0)
		b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, 0)
		b.interior.HullPlaneIndices = append(b.interior.HullPlaneIndices, 0)
		b.interior.HullEmitStringIndices = append(b.interior.HullEmitStringIndices, 0)
		b.interior.ConvexHullEmitStringCharacters = append(b.interior.ConvexHullEmitStringCharacters, 0)
	} else {
		b.processHullPolyLists()
	}
	polyListStage.Done(dlog.F("mbg_only", b.cfg.MBOnly))

	raycastStage := dlog.Stage("raycast_coverage")
	report := b.raycastCoverage()
	report.BalanceFactor = b.balanceFactor
	raycastStage.Done(dlog.F("hit_area_percentage", report.HitAreaPercentage))

	b.interior.BaseAmbientColor = geom.ColorI{A: 255}
	b.interior.AlarmAmbientColor = geom.ColorI{A: 255}

	return b.interior, report, nil
}

func (b *Builder) allVertices() []geom.Point3F {
	out := make([]geom.Point3F, 0, len(b.triangles)*3)
	for _, t := range b.triangles {
		out = append(out, t.verts[0], t.verts[1], t.verts[2])
	}
	return out
}

func boundingSphere(verts []geom.Point3F, center geom.Point3F) geom.SphereF {
	var radius float32
	for _, v := range verts {
		if d := v.Sub(center).Length(); d > radius {
			radius = d
		}
	}
	return geom.SphereF{Origin: center, Radius: radius}
}
