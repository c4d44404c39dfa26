// Package idx gives every DIF index kind its own Go type.
//
// The original implementation leans on Rust's TypedInt<B, X> phantom-tagged
// integer (see original_source/typed_ints) to keep, say, a PlaneIndex from
// ever being passed where a PointIndex is expected. Go has no phantom types,
// so each tag here becomes its own named integer type instead — the same
// "can't mix index kinds without a conversion" safety the teacher gets from
// distinctly-named integer types like BlockTypeID/BlockSize in blocks/block.go.
package idx

import "github.com/vertexsoup/difbuilder/wire"

type PointIndex uint32
type SurfaceIndex uint16
type NullSurfaceIndex uint16
type SolidLeafSurfaceIndex uint32
type StaticMeshIndex uint32
type PortalIndex uint16
type NormalIndex uint16
type LMapIndex uint32
type PlaneIndex uint16
type EmitStringIndex uint32
type CoordBinIndex uint32
type TexMatrixIndex uint32
type ConvexHullIndex uint16
type ZoneIndex uint16
type WindingIndexIndex uint32
type TextureIndex uint16
type TexGenIndex uint32
type HullSurfaceIndex uint32
type HullPointIndex uint32
type HullPlaneIndex uint32
type PolyListPlaneIndex uint32
type PolyListPointIndex uint32
type PolyListStringIndex uint32

func ReadPointIndex(r *wire.Reader) PointIndex     { return PointIndex(r.U32()) }
func (v PointIndex) Write(w *wire.Writer)          { w.U32(uint32(v)) }
func ReadSurfaceIndex(r *wire.Reader) SurfaceIndex { return SurfaceIndex(r.U16()) }
func (v SurfaceIndex) Write(w *wire.Writer)        { w.U16(uint16(v)) }
func ReadNullSurfaceIndex(r *wire.Reader) NullSurfaceIndex {
	return NullSurfaceIndex(r.U16())
}
func (v NullSurfaceIndex) Write(w *wire.Writer) { w.U16(uint16(v)) }
func ReadSolidLeafSurfaceIndex(r *wire.Reader) SolidLeafSurfaceIndex {
	return SolidLeafSurfaceIndex(r.U32())
}
func (v SolidLeafSurfaceIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadStaticMeshIndex(r *wire.Reader) StaticMeshIndex {
	return StaticMeshIndex(r.U32())
}
func (v StaticMeshIndex) Write(w *wire.Writer)   { w.U32(uint32(v)) }
func ReadPortalIndex(r *wire.Reader) PortalIndex { return PortalIndex(r.U16()) }
func (v PortalIndex) Write(w *wire.Writer)       { w.U16(uint16(v)) }
func ReadNormalIndex(r *wire.Reader) NormalIndex { return NormalIndex(r.U16()) }
func (v NormalIndex) Write(w *wire.Writer)       { w.U16(uint16(v)) }
func ReadLMapIndex(r *wire.Reader) LMapIndex     { return LMapIndex(r.U32()) }
func (v LMapIndex) Write(w *wire.Writer)         { w.U32(uint32(v)) }
func ReadPlaneIndex(r *wire.Reader) PlaneIndex   { return PlaneIndex(r.U16()) }
func (v PlaneIndex) Write(w *wire.Writer)        { w.U16(uint16(v)) }
func ReadEmitStringIndex(r *wire.Reader) EmitStringIndex {
	return EmitStringIndex(r.U32())
}
func (v EmitStringIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadCoordBinIndex(r *wire.Reader) CoordBinIndex {
	return CoordBinIndex(r.U32())
}
func (v CoordBinIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadTexMatrixIndex(r *wire.Reader) TexMatrixIndex {
	return TexMatrixIndex(r.U32())
}
func (v TexMatrixIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadConvexHullIndex(r *wire.Reader) ConvexHullIndex {
	return ConvexHullIndex(r.U16())
}
func (v ConvexHullIndex) Write(w *wire.Writer) { w.U16(uint16(v)) }
func ReadZoneIndex(r *wire.Reader) ZoneIndex   { return ZoneIndex(r.U16()) }
func (v ZoneIndex) Write(w *wire.Writer)       { w.U16(uint16(v)) }
func ReadWindingIndexIndex(r *wire.Reader) WindingIndexIndex {
	return WindingIndexIndex(r.U32())
}
func (v WindingIndexIndex) Write(w *wire.Writer)   { w.U32(uint32(v)) }
func ReadTextureIndex(r *wire.Reader) TextureIndex { return TextureIndex(r.U16()) }
func (v TextureIndex) Write(w *wire.Writer)        { w.U16(uint16(v)) }
func ReadTexGenIndex(r *wire.Reader) TexGenIndex   { return TexGenIndex(r.U32()) }
func (v TexGenIndex) Write(w *wire.Writer)         { w.U32(uint32(v)) }
func ReadHullSurfaceIndex(r *wire.Reader) HullSurfaceIndex {
	return HullSurfaceIndex(r.U32())
}
func (v HullSurfaceIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadHullPointIndex(r *wire.Reader) HullPointIndex {
	return HullPointIndex(r.U32())
}
func (v HullPointIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadHullPlaneIndex(r *wire.Reader) HullPlaneIndex {
	return HullPlaneIndex(r.U32())
}
func (v HullPlaneIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadPolyListPlaneIndex(r *wire.Reader) PolyListPlaneIndex {
	return PolyListPlaneIndex(r.U32())
}
func (v PolyListPlaneIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadPolyListPointIndex(r *wire.Reader) PolyListPointIndex {
	return PolyListPointIndex(r.U32())
}
func (v PolyListPointIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }
func ReadPolyListStringIndex(r *wire.Reader) PolyListStringIndex {
	return PolyListStringIndex(r.U32())
}
func (v PolyListStringIndex) Write(w *wire.Writer) { w.U32(uint32(v)) }

// PossiblyNullSurfaceIndex is a tagged union of a SurfaceIndex or a
// NullSurfaceIndex, wire-encoded as a u32 with the high bit (0x80000000)
// marking the null variant (original_source interior.rs From<u32>).
type PossiblyNullSurfaceIndex struct {
	null  bool
	index uint16
}

func NonNullSurface(i SurfaceIndex) PossiblyNullSurfaceIndex {
	return PossiblyNullSurfaceIndex{null: false, index: uint16(i)}
}

func NullSurface(i NullSurfaceIndex) PossiblyNullSurfaceIndex {
	return PossiblyNullSurfaceIndex{null: true, index: uint16(i)}
}

func (p PossiblyNullSurfaceIndex) IsNull() bool { return p.null }

func (p PossiblyNullSurfaceIndex) Surface() (SurfaceIndex, bool) {
	if p.null {
		return 0, false
	}
	return SurfaceIndex(p.index), true
}

func (p PossiblyNullSurfaceIndex) NullSurface() (NullSurfaceIndex, bool) {
	if !p.null {
		return 0, false
	}
	return NullSurfaceIndex(p.index), true
}

func ReadPossiblyNullSurfaceIndex(r *wire.Reader) PossiblyNullSurfaceIndex {
	v := r.U32()
	if v&0x80000000 != 0 {
		return PossiblyNullSurfaceIndex{null: true, index: uint16(v & 0xFFFF)}
	}
	return PossiblyNullSurfaceIndex{null: false, index: uint16(v & 0xFFFF)}
}

func (p PossiblyNullSurfaceIndex) Write(w *wire.Writer) {
	v := uint32(p.index)
	if p.null {
		v |= 0x80000000
	}
	w.U32(v)
}

// narrow variant used by solid_leaf_surfaces/hull_surface_indices, which are
// encoded on the wire as u16 (original_source read_vec::<PossiblyNullSurfaceIndex, u16>).
func ReadPossiblyNullSurfaceIndexNarrow(r *wire.Reader) PossiblyNullSurfaceIndex {
	v := uint32(r.U16())
	if v&0x8000 != 0 {
		return PossiblyNullSurfaceIndex{null: true, index: uint16(v &^ 0x8000)}
	}
	return PossiblyNullSurfaceIndex{null: false, index: uint16(v)}
}

// BSPIndex is a child pointer inside a BSP interior node: either an index
// into the node array, or a leaf marker (optionally flagged solid). Its wire
// width is version-conditional: u32 with bits 0x80000/0x40000 for interior
// format >= 14, u16 with bits 0x8000/0x4000 below that.
type BSPIndex struct {
	Index uint32
	Leaf  bool
	Solid bool
}

func ReadBSPIndex(r *wire.Reader, interiorVersion uint32) BSPIndex {
	var leaf, solid bool
	var index uint32
	if interiorVersion >= 14 {
		index = r.U32()
		if index&0x80000 != 0 {
			index &^= 0x80000
			leaf = true
		}
		if index&0x40000 != 0 {
			index &^= 0x40000
			solid = true
		}
	} else {
		narrow := uint32(r.U16())
		if narrow&0x8000 != 0 {
			narrow &^= 0x8000
			leaf = true
		}
		if narrow&0x4000 != 0 {
			narrow &^= 0x4000
			solid = true
		}
		index = narrow
	}
	return BSPIndex{Index: index, Leaf: leaf, Solid: solid}
}

func (b BSPIndex) Write(w *wire.Writer, interiorVersion uint32) {
	index := b.Index
	if interiorVersion >= 14 {
		if b.Leaf {
			index |= 0x80000
		}
		if b.Solid {
			index |= 0x40000
		}
		w.U32(index)
	} else {
		if b.Leaf {
			index |= 0x8000
		}
		if b.Solid {
			index |= 0x4000
		}
		w.U16(uint16(index))
	}
}
