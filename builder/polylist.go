package builder

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
)

// tempProcSurface is the poly-list encoder's working form of one hull
// surface: its raw plane index (flip bit still embedded, as stored on
// dif.NullSurface/dif.Surface) and the winding, already unrolled into a
// fan order for non-null surfaces.
type tempProcSurface struct {
	planeIndex uint16
	points     []uint32
	mask       uint8
}

type planeGrouping struct {
	planeIndices []uint16
	mask         uint8
}

// processHullPolyLists implements spec.md 4.7: the dense non-MBG hull
// poly-list encoding. For every hull, its surfaces are decoded into fan
// windings, their unique planes/points extracted, the planes merged down
// to at most 8 groups by repeated closest-pair merging, and the whole
// thing packed into a compact byte string.
//
// Grounded on builder.rs's process_hull_poly_lists.
func (b *Builder) processHullPolyLists() {
	b.interior.PolyListPlaneIndices = b.interior.PolyListPlaneIndices[:0]
	b.interior.PolyListPointIndices = b.interior.PolyListPointIndices[:0]
	b.interior.PolyListStringCharacters = b.interior.PolyListStringCharacters[:0]

	for hi := range b.interior.ConvexHulls {
		hull := &b.interior.ConvexHulls[hi]

		var tempSurfaces []tempProcSurface
		for i := uint16(0); i < hull.SurfaceCount; i++ {
			surfIndex := b.interior.HullSurfaceIndices[uint32(i)+uint32(hull.SurfaceStart)]
			tempSurfaces = append(tempSurfaces, b.decodeHullSurface(surfIndex))
		}

		var planeIndices []uint16
		var pointIndices []uint32
		for _, surf := range tempSurfaces {
			if !containsU16(planeIndices, surf.planeIndex) {
				planeIndices = append(planeIndices, surf.planeIndex)
			}
			for _, p := range surf.points {
				if !containsU32(pointIndices, p) {
					pointIndices = append(pointIndices, p)
				}
			}
		}

		for si := range tempSurfaces {
			for pi, p := range tempSurfaces[si].points {
				for l, pt := range pointIndices {
					if pt == p {
						tempSurfaces[si].points[pi] = uint32(l)
						break
					}
				}
			}
		}

		planeGroups := make([]planeGrouping, len(planeIndices))
		for i, p := range planeIndices {
			planeGroups[i] = planeGrouping{planeIndices: []uint16{p}}
		}

		for len(planeGroups) > 8 {
			curMin := float32(2.0)
			first, second := -1, -1
			for j := 0; j < len(planeGroups); j++ {
				for k := j + 1; k < len(planeGroups); k++ {
					max := float32(-2.0)
					for _, l := range planeGroups[j].planeIndices {
						for _, m := range planeGroups[k].planeIndices {
							dot := b.planeNormal(l).Dot(b.planeNormal(m))
							if dot > max {
								max = dot
							}
						}
					}
					if max < curMin {
						curMin = max
						first, second = j, k
					}
				}
			}
			planeGroups[first].planeIndices = append(planeGroups[first].planeIndices, planeGroups[second].planeIndices...)
			planeGroups = append(planeGroups[:second], planeGroups[second+1:]...)
		}

		for j := range planeGroups {
			planeGroups[j].mask = 1 << uint(j)
		}

		for si := range tempSurfaces {
			for _, pg := range planeGroups {
				if containsU16(pg.planeIndices, tempSurfaces[si].planeIndex) {
					tempSurfaces[si].mask = pg.mask
					break
				}
			}
		}

		planeMasks := make([]uint8, len(planeIndices))
		for i, p := range planeIndices {
			for _, pg := range planeGroups {
				if containsU16(pg.planeIndices, p) {
					planeMasks[i] = pg.mask
					break
				}
			}
		}

		pointMasks := make([]uint8, len(pointIndices))
		for j := range pointIndices {
			for _, surf := range tempSurfaces {
				for _, p := range surf.points {
					if int(p) == j {
						pointMasks[j] |= surf.mask
						break
					}
				}
			}
		}

		hull.PolyListPlaneStart = idx.PolyListPlaneIndex(len(b.interior.PolyListPlaneIndices))
		for _, p := range planeIndices {
			b.interior.PolyListPlaneIndices = append(b.interior.PolyListPlaneIndices, idx.PlaneIndex(p))
		}

		hull.PolyListPointStart = idx.PolyListPointIndex(len(b.interior.PolyListPointIndices))
		for _, p := range pointIndices {
			b.interior.PolyListPointIndices = append(b.interior.PolyListPointIndices, idx.PointIndex(p))
		}

		hull.PolyListStringStart = idx.PolyListStringIndex(len(b.interior.PolyListStringCharacters))

		b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, byte(len(planeIndices)))
		b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, planeMasks...)

		b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters,
			byte((len(pointIndices)>>8)&0xFF), byte(len(pointIndices)&0xFF))
		b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, pointMasks...)

		b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, byte(len(tempSurfaces)))
		for _, surf := range tempSurfaces {
			b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, byte(len(surf.points)), surf.mask)
			for k, p := range planeIndices {
				if p == surf.planeIndex {
					b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, byte(k))
					break
				}
			}
			for _, p := range surf.points {
				b.interior.PolyListStringCharacters = append(b.interior.PolyListStringCharacters, byte((p>>8)&0xFF), byte(p&0xFF))
			}
		}
	}
}

// planeNormal resolves a raw (possibly flip-bit-tagged) plane index into
// its normal vector, negated when the flip bit is set.
func (b *Builder) planeNormal(rawPlaneIndex uint16) geom.Point3F {
	n := b.interior.Normals[b.interior.Planes[rawPlaneIndex&^0x8000].NormalIndex]
	if rawPlaneIndex&0x8000 != 0 {
		return n.Scale(-1)
	}
	return n
}

// decodeHullSurface implements the surface half of process_hull_poly_lists:
// null surfaces emit their winding directly, non-null surfaces are
// unrolled through the same zig-zag fan permutation the engine itself
// expects (temp_indices built as 1,3,5,...,last_even,last_even-2,...,2,0,
// masked by fan_mask).
func (b *Builder) decodeHullSurface(surfIndex idx.PossiblyNullSurfaceIndex) tempProcSurface {
	if nsIdx, ok := surfIndex.NullSurface(); ok {
		ns := b.interior.NullSurfaces[nsIdx]
		points := make([]uint32, ns.WindingCount)
		for j := uint8(0); j < ns.WindingCount; j++ {
			points[j] = uint32(b.interior.Indices[uint32(ns.WindingStart)+uint32(j)])
		}
		return tempProcSurface{planeIndex: uint16(ns.PlaneIndex), points: points}
	}

	sIdx, _ := surfIndex.Surface()
	s := b.interior.Surfaces[sIdx]
	rawPlaneIndex := uint16(s.PlaneIndex)
	if s.PlaneFlipped {
		rawPlaneIndex |= 0x8000
	}

	tempIndices := make([]uint32, 32)
	jdx := 0
	j := uint32(1)
	for j < s.WindingCount {
		tempIndices[jdx] = j
		jdx++
		j += 2
	}
	j = (s.WindingCount - 1) &^ 1
	for j > 0 {
		tempIndices[jdx] = j
		jdx++
		j -= 2
	}
	tempIndices[jdx] = 0

	var points []uint32
	for j := uint32(0); j < s.WindingCount; j++ {
		if s.FanMask&(1<<j) != 0 {
			points = append(points, uint32(b.interior.Indices[uint32(s.WindingStart)+tempIndices[j]]))
		}
	}

	return tempProcSurface{planeIndex: rawPlaneIndex, points: points}
}

func containsU16(list []uint16, v uint16) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsU32(list []uint32, v uint32) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
