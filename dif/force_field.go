package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

// ForceField carries its own, much simpler BSP/surface model than Interior
// — a flat solid volume that only needs a force vector, not lightmaps or
// zones — so it gets its own unqualified Plane/BSPNode/BSPSolidLeaf/Surface
// types rather than sharing Interior's.
type ForceFieldPlane struct {
	NormalIndex   uint32
	PlaneDistance float32
}

func readForceFieldPlane(r *wire.Reader) ForceFieldPlane {
	return ForceFieldPlane{NormalIndex: r.U32(), PlaneDistance: r.F32()}
}
func (p ForceFieldPlane) write(w *wire.Writer) {
	w.U32(p.NormalIndex)
	w.F32(p.PlaneDistance)
}

type ForceFieldBSPNode struct {
	FrontIndex, BackIndex uint16
}

func readForceFieldBSPNode(r *wire.Reader) ForceFieldBSPNode {
	return ForceFieldBSPNode{FrontIndex: r.U16(), BackIndex: r.U16()}
}
func (n ForceFieldBSPNode) write(w *wire.Writer) {
	w.U16(n.FrontIndex)
	w.U16(n.BackIndex)
}

type ForceFieldBSPSolidLeaf struct {
	SurfaceIndex uint32
	SurfaceCount uint16
}

func readForceFieldBSPSolidLeaf(r *wire.Reader) ForceFieldBSPSolidLeaf {
	return ForceFieldBSPSolidLeaf{SurfaceIndex: r.U32(), SurfaceCount: r.U16()}
}
func (l ForceFieldBSPSolidLeaf) write(w *wire.Writer) {
	w.U32(l.SurfaceIndex)
	w.U16(l.SurfaceCount)
}

type ForceFieldSurface struct {
	WindingStart uint32
	WindingCount uint8
	PlaneIndex   uint16
	SurfaceFlags uint8
	FanMask      uint32
}

func readForceFieldSurface(r *wire.Reader) ForceFieldSurface {
	return ForceFieldSurface{
		WindingStart: r.U32(),
		WindingCount: r.U8(),
		PlaneIndex:   r.U16(),
		SurfaceFlags: r.U8(),
		FanMask:      r.U32(),
	}
}
func (s ForceFieldSurface) write(w *wire.Writer) {
	w.U32(s.WindingStart)
	w.U8(s.WindingCount)
	w.U16(s.PlaneIndex)
	w.U8(s.SurfaceFlags)
	w.U32(s.FanMask)
}

// ForceField is a BSP-bounded volume that applies a directional push to
// objects inside it.
type ForceField struct {
	Version          uint32
	Name             string
	Triggers         []string
	BoundingBox      geom.BoxF
	BoundingSphere   geom.SphereF
	Normals          []geom.Point3F
	Planes           []ForceFieldPlane
	BSPNodes         []ForceFieldBSPNode
	BSPSolidLeaves   []ForceFieldBSPSolidLeaf
	Indices          []uint32
	Surfaces         []ForceFieldSurface
	SolidLeafSurfaces []uint32
	Color            geom.ColorI
}

func ReadForceField(r *wire.Reader) ForceField {
	return ForceField{
		Version:           r.U32(),
		Name:              r.String(),
		Triggers:          wire.ReadVecFn(r, (*wire.Reader).String),
		BoundingBox:       geom.ReadBoxF(r),
		BoundingSphere:    geom.ReadSphereF(r),
		Normals:           wire.ReadVecFn(r, geom.ReadPoint3F),
		Planes:            wire.ReadVecFn(r, readForceFieldPlane),
		BSPNodes:          wire.ReadVecFn(r, readForceFieldBSPNode),
		BSPSolidLeaves:    wire.ReadVecFn(r, readForceFieldBSPSolidLeaf),
		Indices:           wire.ReadVecFn(r, (*wire.Reader).U32),
		Surfaces:          wire.ReadVecFn(r, readForceFieldSurface),
		SolidLeafSurfaces: wire.ReadVecFn(r, (*wire.Reader).U32),
		Color:             geom.ReadColorI(r),
	}
}

func (f ForceField) Write(w *wire.Writer) {
	w.U32(f.Version)
	w.String(f.Name)
	wire.WriteVecFn(w, f.Triggers, (*wire.Writer).String)
	f.BoundingBox.Write(w)
	f.BoundingSphere.Write(w)
	wire.WriteVecFn(w, f.Normals, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	wire.WriteVecFn(w, f.Planes, func(w *wire.Writer, p ForceFieldPlane) { p.write(w) })
	wire.WriteVecFn(w, f.BSPNodes, func(w *wire.Writer, n ForceFieldBSPNode) { n.write(w) })
	wire.WriteVecFn(w, f.BSPSolidLeaves, func(w *wire.Writer, l ForceFieldBSPSolidLeaf) { l.write(w) })
	wire.WriteVecFn(w, f.Indices, (*wire.Writer).U32)
	wire.WriteVecFn(w, f.Surfaces, func(w *wire.Writer, s ForceFieldSurface) { s.write(w) })
	wire.WriteVecFn(w, f.SolidLeafSurfaces, (*wire.Writer).U32)
	f.Color.Write(w)
}
