package builder

import (
	"github.com/vertexsoup/difbuilder/dif"
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
)

// triangleBox returns the triangle's own axis-aligned bounding box.
func triangleBox(t triangle) geom.BoxF {
	return geom.BoxFromVertices(t.verts[:])
}

func surfaceArea(box geom.BoxF) float32 {
	e := box.Extent()
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// polyGroup is a single accumulating hull-in-progress (spec.md 4.4's
// PolyGroup): its bounding box grows as triangles are assigned to it.
type polyGroup struct {
	box   geom.BoxF
	polys []int
}

// subdividePolysIntoGroups implements spec.md 4.4 Phase B: each triangle
// joins whichever existing group has the *highest* incremental
// surface-area cost of absorbing it, or starts a new group if that
// beats every existing group's cost (ties and the first triangle always
// start a group).
func (b *Builder) subdividePolysIntoGroups(polyIdxs []int) [][]int {
	var groups []polyGroup
	for _, pi := range polyIdxs {
		t := b.triangles[pi]
		box := triangleBox(t)
		if len(groups) == 0 {
			groups = append(groups, polyGroup{box: box, polys: []int{pi}})
			continue
		}

		newCost := surfaceArea(box)
		bestCost := newCost
		bestIdx := -1
		for gi, g := range groups {
			cost := surfaceArea(g.box.Union(box)) - surfaceArea(g.box)
			if cost > bestCost {
				bestCost = cost
				bestIdx = gi
			}
		}

		if bestIdx < 0 {
			groups = append(groups, polyGroup{box: box, polys: []int{pi}})
		} else {
			groups[bestIdx].box = groups[bestIdx].box.Union(box)
			groups[bestIdx].polys = append(groups[bestIdx].polys, pi)
		}
	}

	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = g.polys
	}
	return out
}

// groupPolys implements spec.md 4.4: bins every triangle into the 16x16 xy
// cells of the scene's (inflated) bounding box (Phase A), coalesces each
// cell's triangles into hull groups (Phase B), then walks the bins in
// order deduping against triangles already claimed by an earlier group
// (Phase C).
func (b *Builder) groupPolys() [][]int {
	box := geom.BoxFromVertices(b.allVertices())
	box.Min = box.Min.Sub(geom.Point3F{X: 3, Y: 3, Z: 3})
	box.Max = box.Max.Add(geom.Point3F{X: 3, Y: 3, Z: 3})
	extent := box.Extent()

	var bins [256][]int
	for i := 0; i < 16; i++ {
		minX := box.Min.X + float32(i)*extent.X/16
		maxX := box.Min.X + float32(i+1)*extent.X/16
		for j := 0; j < 16; j++ {
			minY := box.Min.Y + float32(j)*extent.Y/16
			maxY := box.Min.Y + float32(j+1)*extent.Y/16
			binIndex := i*16 + j

			for k, t := range b.triangles {
				pb := triangleBox(t)
				if !(minX > pb.Max.X || maxX < pb.Min.X || minY > pb.Max.Y || maxY < pb.Min.Y) {
					bins[binIndex] = append(bins[binIndex], k)
				}
			}
		}
	}

	var grouped [][]int
	for i := 0; i < 256; i++ {
		grouped = append(grouped, b.subdividePolysIntoGroups(bins[i])...)
	}

	used := make(map[int]bool)
	var final [][]int
	for _, group := range grouped {
		var fresh []int
		for _, pi := range group {
			if !used[pi] {
				used[pi] = true
				fresh = append(fresh, pi)
			}
		}
		if len(fresh) > 0 {
			final = append(final, fresh)
		}
	}
	return final
}

type hullPoly struct {
	points     []int // indices into the hull's local point list
	planeIndex idx.PlaneIndex
}

type emitEdge struct{ first, last int }

// exportConvexHull implements spec.md 4.5/4.6: allocates one ConvexHull
// record for a poly group, exports its points/planes/surfaces, and (for
// non-MBG builds) derives the per-support-point emit strings used by the
// engine's hull-walk collision code.
func (b *Builder) exportConvexHull(group []int) error {
	polys := make([]triangle, len(group))
	for i, pi := range group {
		polys[i] = b.triangles[pi]
	}

	hullCount := len(polys) * 3
	if hullCount >= 0x10000 {
		return ErrTooManyPlanes
	}

	var allVerts []geom.Point3F
	for _, t := range polys {
		allVerts = append(allVerts, t.verts[:]...)
	}
	box := geom.BoxFromVertices(allVerts)

	hull := dif.ConvexHull{
		HullStart:          idx.HullPointIndex(len(b.interior.HullIndices)),
		HullCount:          uint16(hullCount),
		MinX:                box.Min.X,
		MaxX:                box.Max.X,
		MinY:                box.Min.Y,
		MaxY:                box.Max.Y,
		MinZ:                box.Min.Z,
		MaxZ:                box.Max.Z,
		SurfaceStart:        idx.HullSurfaceIndex(len(b.interior.HullSurfaceIndices)),
		SurfaceCount:        uint16(len(polys)),
		PlaneStart:          idx.HullPlaneIndex(len(b.interior.HullPlaneIndices)),
		PolyListPlaneStart:  idx.PolyListPlaneIndex(len(b.interior.PolyListPlaneIndices)),
		PolyListPointStart:  idx.PolyListPointIndex(len(b.interior.PolyListPointIndices)),
		PolyListStringStart: 0,
		StaticMesh:          0,
	}

	var hullExportedPoints []idx.PointIndex
	localPointMap := make(map[geom.OrdPoint]int)
	var localOrder []geom.OrdPoint
	for _, t := range polys {
		for _, v := range t.verts {
			hullExportedPoints = append(hullExportedPoints, b.exportPoint(v))
			ord := geom.NewOrdPoint(v, b.cfg.PointEpsilon)
			if _, ok := localPointMap[ord]; !ok {
				localPointMap[ord] = len(localOrder)
				localOrder = append(localOrder, ord)
			}
		}
	}

	b.interior.HullIndices = append(b.interior.HullIndices, hullExportedPoints...)
	if !b.cfg.MBOnly {
		b.interior.PolyListPointIndices = append(b.interior.PolyListPointIndices, hullExportedPoints...)
	}

	hullPlaneIndices := make([]idx.PlaneIndex, len(polys))
	for i, t := range polys {
		pi, err := b.exportPlane(t.plane)
		if err != nil {
			return err
		}
		hullPlaneIndices[i] = pi
	}
	if !b.cfg.MBOnly {
		b.interior.PolyListPlaneIndices = append(b.interior.PolyListPlaneIndices, hullPlaneIndices...)
		b.interior.HullPlaneIndices = append(b.interior.HullPlaneIndices, hullPlaneIndices...)
	}

	for _, t := range polys {
		var surf idx.PossiblyNullSurfaceIndex
		var err error
		if t.material == "NULL" {
			surf, err = b.exportNullSurface(t)
		} else {
			surf, err = b.exportSurface(t)
		}
		if err != nil {
			return err
		}
		b.interior.HullSurfaceIndices = append(b.interior.HullSurfaceIndices, surf)
	}

	hullPolys := make([]hullPoly, len(polys))
	for i, t := range polys {
		points := make([]int, 3)
		for j, v := range t.verts {
			points[j] = localPointMap[geom.NewOrdPoint(v, b.cfg.PointEpsilon)]
		}
		hullPolys[i] = hullPoly{points: points, planeIndex: b.faceToPlane[t.id]}
	}

	if !b.cfg.MBOnly {
		for i := range hullExportedPoints {
			// hullExportedPoints is laid out triangle-by-triangle (3 per
			// poly); map each occurrence back to its local-point index.
			localPoint := localPointMap[geom.NewOrdPoint(polys[i/3].verts[i%3], b.cfg.PointEpsilon)]

			emitStr := b.buildEmitString(hullPolys, localPoint)
			emitIndex := b.exportEmitString(emitStr)
			b.interior.HullEmitStringIndices = append(b.interior.HullEmitStringIndices, emitIndex)
		}
	}

	b.interior.ConvexHulls = append(b.interior.ConvexHulls, hull)
	return nil
}

// buildEmitString implements spec.md 4.6's per-support-point procedure:
// collect every poly touching the point, extend with polys sharing a
// plane with one already collected, then encode the referenced points,
// undirected edges, and poly windings as a compact byte string.
func (b *Builder) buildEmitString(hullPolys []hullPoly, point int) []byte {
	var emitPolyIndices []int
	contains := func(list []int, v int) bool {
		for _, x := range list {
			if x == v {
				return true
			}
		}
		return false
	}

	for j, poly := range hullPolys {
		if contains(poly.points, point) {
			emitPolyIndices = append(emitPolyIndices, j)
		}
	}

	var newIndices []int
	for j, poly := range hullPolys {
		for _, emitPoly := range emitPolyIndices {
			if emitPoly == j {
				continue
			}
			if hullPolys[emitPoly].planeIndex == poly.planeIndex && !contains(emitPolyIndices, j) && !contains(newIndices, j) {
				newIndices = append(newIndices, j)
			}
		}
	}
	emitPolyIndices = append(emitPolyIndices, newIndices...)

	pointSet := make(map[int]bool)
	var emitPoints []int
	for _, pj := range emitPolyIndices {
		for _, p := range hullPolys[pj].points {
			if !pointSet[p] {
				pointSet[p] = true
				emitPoints = append(emitPoints, p)
			}
		}
	}

	edgeSet := make(map[emitEdge]bool)
	var emitEdges []emitEdge
	for _, pj := range emitPolyIndices {
		pts := hullPolys[pj].points
		for i := range pts {
			a, c := pts[i], pts[(i+1)%len(pts)]
			e := emitEdge{first: minInt(a, c), last: maxInt(a, c)}
			if !edgeSet[e] {
				edgeSet[e] = true
				emitEdges = append(emitEdges, e)
			}
		}
	}

	var out []byte
	out = append(out, byte(len(emitPoints)))
	out = append(out, toBytes(emitPoints)...)

	out = append(out, byte(len(emitEdges)))
	for _, e := range emitEdges {
		out = append(out, byte(e.first), byte(e.last))
	}

	out = append(out, byte(len(emitPolyIndices)))
	for _, pj := range emitPolyIndices {
		out = append(out, byte(len(hullPolys[pj].points)), byte(pj))
		for _, p := range hullPolys[pj].points {
			for localIdx, ep := range emitPoints {
				if ep == p {
					out = append(out, byte(localIdx))
					break
				}
			}
		}
	}
	return out
}

func toBytes(in []int) []byte {
	out := make([]byte, len(in))
	for i, v := range in {
		out[i] = byte(v)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// exportBrushes implements spec.md 4.4/4.5/4.9: groups the intake
// triangles into convex hulls, exports each, and then builds the BSP
// tree over the exported faces.
func (b *Builder) exportBrushes() error {
	for _, group := range b.groupPolys() {
		if err := b.exportConvexHull(group); err != nil {
			return err
		}
	}
	return b.exportBSP()
}
