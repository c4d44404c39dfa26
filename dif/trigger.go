package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

type PolyhedronEdge struct {
	Face0, Face1   uint32
	Vertex0, Vertex1 uint32
}

func readPolyhedronEdge(r *wire.Reader) PolyhedronEdge {
	return PolyhedronEdge{Face0: r.U32(), Face1: r.U32(), Vertex0: r.U32(), Vertex1: r.U32()}
}
func (e PolyhedronEdge) write(w *wire.Writer) {
	w.U32(e.Face0)
	w.U32(e.Face1)
	w.U32(e.Vertex0)
	w.U32(e.Vertex1)
}

type Polyhedron struct {
	PointList []geom.Point3F
	PlaneList []geom.PlaneF
	EdgeList  []PolyhedronEdge
}

func readPolyhedron(r *wire.Reader) Polyhedron {
	return Polyhedron{
		PointList: wire.ReadVecFn(r, geom.ReadPoint3F),
		PlaneList: wire.ReadVecFn(r, geom.ReadPlaneF),
		EdgeList:  wire.ReadVecFn(r, readPolyhedronEdge),
	}
}
func (p Polyhedron) write(w *wire.Writer) {
	wire.WriteVecFn(w, p.PointList, func(w *wire.Writer, pt geom.Point3F) { pt.Write(w) })
	wire.WriteVecFn(w, p.PlaneList, func(w *wire.Writer, pl geom.PlaneF) { pl.Write(w) })
	wire.WriteVecFn(w, p.EdgeList, func(w *wire.Writer, e PolyhedronEdge) { e.write(w) })
}

// Trigger is a named polyhedral volume with datablock properties, entered
// through script callbacks at runtime.
type Trigger struct {
	Name       string
	Datablock  string
	Properties map[string]string
	Polyhedron Polyhedron
	Offset     geom.Point3F
}

func ReadTrigger(r *wire.Reader) Trigger {
	return Trigger{
		Name:       r.String(),
		Datablock:  r.String(),
		Properties: r.Dictionary(),
		Polyhedron: readPolyhedron(r),
		Offset:     geom.ReadPoint3F(r),
	}
}

// Write omits Properties when the target engine isn't MBG, matching
// original_source/trigger.rs: only the MBG writer emits trigger
// properties (other engine variants keep them out of band).
func (t Trigger) Write(w *wire.Writer, v *Version) {
	w.String(t.Name)
	w.String(t.Datablock)
	if v.Engine == EngineMBG {
		w.Dictionary(t.Properties)
	}
	t.Polyhedron.write(w)
	t.Offset.Write(w)
}
