package builder

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
)

// raycastCoverage implements spec.md 4.10: for every exported surface,
// fires a short ray from just outside its face through to just behind it
// and walks the exported BSP tree to see whether the tree reports a solid
// leaf bounded by that same plane. The fraction of surface area "hit"
// this way is a coarse proxy for whether the tree correctly bounds the
// original geometry.
//
// Grounded on builder.rs's RaycastCalc::calculate_bsp_raycast_coverage /
// bsp_ray_cast, operating over the already-exported dif.Interior rather
// than the bsp.Node tree (the reference method lives on Interior too).
func (b *Builder) raycastCoverage() Report {
	var hit int
	var totalArea, hitArea float32

	for _, s := range b.interior.Surfaces {
		points := make([]geom.Point3F, s.WindingCount)
		var avg geom.Point3F
		for i := uint32(0); i < s.WindingCount; i++ {
			p := b.interior.Points[b.interior.Indices[uint32(s.WindingStart)+i]]
			points[i] = p
			avg = avg.Add(p)
		}
		avg = avg.Scale(1.0 / float32(s.WindingCount))

		var area float32
		for i := range points {
			next := points[(i+1)%len(points)]
			area += points[i].Sub(avg).Cross(next.Sub(avg)).Length() / 2
		}
		totalArea += area

		norm := b.interior.Normals[b.interior.Planes[s.PlaneIndex].NormalIndex]
		sign := float32(1)
		if s.PlaneFlipped {
			sign = -1
		}
		start := avg.Add(norm.Scale(sign * 0.1))
		end := avg.Sub(norm.Scale(sign * 0.1))

		root := idx.BSPIndex{Index: 0, Leaf: false, Solid: false}
		if b.bspRayCast(root, 0xFFFF, start, end) {
			hit++
			hitArea += area
		}
	}

	pct := float32(0)
	if totalArea > 0 {
		pct = hitArea / totalArea * 100
	}
	return Report{Hit: hit, Total: len(b.interior.Surfaces), HitAreaPercentage: pct}
}

// bspRayCast walks the exported BSP tree from node, splitting the
// start-end segment at each boundary it crosses. planeIndex carries the
// raw (flip-bit-tagged) plane id of the most recent split crossed; a
// solid leaf counts as a hit only if one of its surfaces shares that
// plane.
func (b *Builder) bspRayCast(node idx.BSPIndex, planeIndex uint16, start, end geom.Point3F) bool {
	if !node.Leaf {
		n := b.interior.BSPNodes[node.Index]
		rawPlaneIndex := uint16(n.PlaneIndex)
		// exportBSP already resolves the front/back swap at export time and
		// stores the plane index with its flip bit stripped, so this is
		// always false; kept to mirror the stored field's wire shape.
		flipped := rawPlaneIndex&0x8000 != 0
		plane := b.interior.Planes[rawPlaneIndex&0x7FFF]
		norm := b.interior.Normals[plane.NormalIndex]
		d := plane.PlaneDistance
		if flipped {
			norm = norm.Scale(-1)
			d = -d
		}

		sSide := norm.Dot(start) + d
		eSide := norm.Dot(end) + d

		switch {
		case sSide > 0 && eSide >= 0, sSide >= 0 && eSide > 0:
			return b.bspRayCast(n.Front, planeIndex, start, end)
		case sSide > 0 && eSide < 0:
			t := (-d - start.Dot(norm)) / end.Sub(start).Dot(norm)
			ip := start.Add(end.Sub(start).Scale(t))
			if b.bspRayCast(n.Front, planeIndex, start, ip) {
				return true
			}
			return b.bspRayCast(n.Back, uint16(n.PlaneIndex), ip, end)
		case sSide < 0 && eSide > 0:
			t := (-d - start.Dot(norm)) / end.Sub(start).Dot(norm)
			ip := start.Add(end.Sub(start).Scale(t))
			if b.bspRayCast(n.Back, planeIndex, start, ip) {
				return true
			}
			return b.bspRayCast(n.Front, uint16(n.PlaneIndex), ip, end)
		case sSide < 0 && eSide <= 0, sSide <= 0 && eSide < 0:
			return b.bspRayCast(n.Back, planeIndex, start, end)
		default: // both exactly zero
			if b.bspRayCast(n.Front, planeIndex, start, end) {
				return true
			}
			return b.bspRayCast(n.Back, planeIndex, start, end)
		}
	}

	if !node.Solid {
		return false
	}

	leaf := b.interior.BSPSolidLeaves[node.Index]
	surfaces := b.interior.SolidLeafSurfaces[leaf.SurfaceIndex : uint32(leaf.SurfaceIndex)+uint32(leaf.SurfaceCount)]
	for _, s := range surfaces {
		if sIdx, ok := s.Surface(); ok {
			surf := b.interior.Surfaces[sIdx]
			if uint16(surf.PlaneIndex) == planeIndex&0x7FFF {
				return true
			}
		}
	}
	return false
}
