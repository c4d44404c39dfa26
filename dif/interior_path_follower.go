package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

type WayPoint struct {
	Position     geom.Point3F
	Rotation     geom.QuatF
	MsToNext     uint32
	SmoothingType uint32
}

func readWayPoint(r *wire.Reader) WayPoint {
	return WayPoint{
		Position:      geom.ReadPoint3F(r),
		Rotation:      geom.ReadQuatF(r),
		MsToNext:      r.U32(),
		SmoothingType: r.U32(),
	}
}
func (w2 WayPoint) write(w *wire.Writer) {
	w2.Position.Write(w)
	w2.Rotation.Write(w)
	w.U32(w2.MsToNext)
	w.U32(w2.SmoothingType)
}

// InteriorPathFollower moves an interior (a moving platform) along a
// sequence of WayPoints, keyed to one of the Dif's interiors by index.
type InteriorPathFollower struct {
	Name              string
	Datablock         string
	InteriorResIndex  uint32
	Offset            geom.Point3F
	Properties        map[string]string
	TriggerIDs        []uint32
	WayPoints         []WayPoint
	TotalMS           uint32
}

func ReadInteriorPathFollower(r *wire.Reader) InteriorPathFollower {
	return InteriorPathFollower{
		Name:             r.String(),
		Datablock:        r.String(),
		InteriorResIndex: r.U32(),
		Offset:           geom.ReadPoint3F(r),
		Properties:       r.Dictionary(),
		TriggerIDs:       wire.ReadVecFn(r, (*wire.Reader).U32),
		WayPoints:        wire.ReadVecFn(r, readWayPoint),
		TotalMS:          r.U32(),
	}
}

func (p InteriorPathFollower) Write(w *wire.Writer) {
	w.String(p.Name)
	w.String(p.Datablock)
	w.U32(p.InteriorResIndex)
	p.Offset.Write(w)
	w.Dictionary(p.Properties)
	wire.WriteVecFn(w, p.TriggerIDs, (*wire.Writer).U32)
	wire.WriteVecFn(w, p.WayPoints, func(w *wire.Writer, wp WayPoint) { wp.write(w) })
	w.U32(p.TotalMS)
}
