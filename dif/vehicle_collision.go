package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

// VehicleCollision is a separate, simplified convex-hull collision model
// used for vehicle-vs-interior physics; it carries its own ConvexHull,
// NullSurface, and WindingIndex types because every index in it is a plain
// u32/u16 rather than one of Interior's typed/narrow-encoded indices.
type VehicleCollisionHull struct {
	HullStart           uint32
	HullCount            uint16
	MinX, MaxX           float32
	MinY, MaxY           float32
	MinZ, MaxZ           float32
	SurfaceStart         uint32
	SurfaceCount         uint16
	PlaneStart           uint32
	PolyListPlaneStart   uint32
	PolyListPointStart   uint32
	PolyListStringStart  uint32
}

func readVehicleCollisionHull(r *wire.Reader) VehicleCollisionHull {
	return VehicleCollisionHull{
		HullStart: r.U32(), HullCount: r.U16(),
		MinX: r.F32(), MaxX: r.F32(), MinY: r.F32(), MaxY: r.F32(), MinZ: r.F32(), MaxZ: r.F32(),
		SurfaceStart: r.U32(), SurfaceCount: r.U16(),
		PlaneStart:          r.U32(),
		PolyListPlaneStart:  r.U32(),
		PolyListPointStart:  r.U32(),
		PolyListStringStart: r.U32(),
	}
}
func (h VehicleCollisionHull) write(w *wire.Writer) {
	w.U32(h.HullStart)
	w.U16(h.HullCount)
	w.F32(h.MinX)
	w.F32(h.MaxX)
	w.F32(h.MinY)
	w.F32(h.MaxY)
	w.F32(h.MinZ)
	w.F32(h.MaxZ)
	w.U32(h.SurfaceStart)
	w.U16(h.SurfaceCount)
	w.U32(h.PlaneStart)
	w.U32(h.PolyListPlaneStart)
	w.U32(h.PolyListPointStart)
	w.U32(h.PolyListStringStart)
}

type VehicleCollisionNullSurface struct {
	WindingStart uint32
	PlaneIndex   uint16
	SurfaceFlags uint8
	WindingCount uint32
}

func readVehicleCollisionNullSurface(r *wire.Reader) VehicleCollisionNullSurface {
	return VehicleCollisionNullSurface{
		WindingStart: r.U32(),
		PlaneIndex:   r.U16(),
		SurfaceFlags: r.U8(),
		WindingCount: r.U32(),
	}
}
func (n VehicleCollisionNullSurface) write(w *wire.Writer) {
	w.U32(n.WindingStart)
	w.U16(n.PlaneIndex)
	w.U8(n.SurfaceFlags)
	w.U32(n.WindingCount)
}

type VehicleCollisionWindingIndex struct {
	WindingStart uint32
	WindingCount uint32
}

func readVehicleCollisionWindingIndex(r *wire.Reader) VehicleCollisionWindingIndex {
	return VehicleCollisionWindingIndex{WindingStart: r.U32(), WindingCount: r.U32()}
}
func (w2 VehicleCollisionWindingIndex) write(w *wire.Writer) {
	w.U32(w2.WindingStart)
	w.U32(w2.WindingCount)
}

// VehicleCollision is the Dif's single optional vehicle-physics collision
// mesh, stored independently of every interior's own BSP geometry.
type VehicleCollision struct {
	Version                        uint32
	ConvexHulls                    []VehicleCollisionHull
	ConvexHullEmitStringCharacters []byte
	HullIndices                    []uint32
	HullPlaneIndices               []uint16
	HullEmitStringIndices          []uint32
	HullSurfaceIndices             []uint32
	PolyListPlaneIndices           []uint16
	PolyListPointIndices           []uint32
	PolyListStringCharacters       []byte
	NullSurfaces                   []VehicleCollisionNullSurface
	Points                          []geom.Point3F
	Planes                          []geom.PlaneF
	Windings                        []uint32
	WindingIndices                  []VehicleCollisionWindingIndex
}

func ReadVehicleCollision(r *wire.Reader) VehicleCollision {
	return VehicleCollision{
		Version:                        r.U32(),
		ConvexHulls:                    wire.ReadVecFn(r, readVehicleCollisionHull),
		ConvexHullEmitStringCharacters: wire.ReadVecFn(r, (*wire.Reader).U8),
		HullIndices:                    wire.ReadVecFn(r, (*wire.Reader).U32),
		HullPlaneIndices:               wire.ReadVecFn(r, (*wire.Reader).U16),
		HullEmitStringIndices:          wire.ReadVecFn(r, (*wire.Reader).U32),
		HullSurfaceIndices:             wire.ReadVecFn(r, (*wire.Reader).U32),
		PolyListPlaneIndices:           wire.ReadVecFn(r, (*wire.Reader).U16),
		PolyListPointIndices:           wire.ReadVecFn(r, (*wire.Reader).U32),
		PolyListStringCharacters:       wire.ReadVecFn(r, (*wire.Reader).U8),
		NullSurfaces:                   wire.ReadVecFn(r, readVehicleCollisionNullSurface),
		Points:                         wire.ReadVecFn(r, geom.ReadPoint3F),
		Planes:                         wire.ReadVecFn(r, geom.ReadPlaneF),
		Windings:                       wire.ReadVecFn(r, (*wire.Reader).U32),
		WindingIndices:                 wire.ReadVecFn(r, readVehicleCollisionWindingIndex),
	}
}

func (v VehicleCollision) Write(w *wire.Writer) {
	w.U32(v.Version)
	wire.WriteVecFn(w, v.ConvexHulls, func(w *wire.Writer, h VehicleCollisionHull) { h.write(w) })
	wire.WriteVecFn(w, v.ConvexHullEmitStringCharacters, (*wire.Writer).U8)
	wire.WriteVecFn(w, v.HullIndices, (*wire.Writer).U32)
	wire.WriteVecFn(w, v.HullPlaneIndices, (*wire.Writer).U16)
	wire.WriteVecFn(w, v.HullEmitStringIndices, (*wire.Writer).U32)
	wire.WriteVecFn(w, v.HullSurfaceIndices, (*wire.Writer).U32)
	wire.WriteVecFn(w, v.PolyListPlaneIndices, (*wire.Writer).U16)
	wire.WriteVecFn(w, v.PolyListPointIndices, (*wire.Writer).U32)
	wire.WriteVecFn(w, v.PolyListStringCharacters, (*wire.Writer).U8)
	wire.WriteVecFn(w, v.NullSurfaces, func(w *wire.Writer, n VehicleCollisionNullSurface) { n.write(w) })
	wire.WriteVecFn(w, v.Points, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	wire.WriteVecFn(w, v.Planes, func(w *wire.Writer, p geom.PlaneF) { p.Write(w) })
	wire.WriteVecFn(w, v.Windings, (*wire.Writer).U32)
	wire.WriteVecFn(w, v.WindingIndices, func(w *wire.Writer, wi VehicleCollisionWindingIndex) { wi.write(w) })
}
