package dif

import (
	"errors"

	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

// ErrMaterialListUnsupported is returned for a static mesh's inline bitmap
// material list, which original_source/static_mesh.rs never implemented
// either (base_material_list is always None in every retrievable DIF
// fixture). StaticMesh itself is fully implemented since interior >= 10 is
// within this module's MBG-only scope only in the trivial empty-list sense,
// but the type is kept complete for any future interior version.
var ErrMaterialListUnsupported = errors.New("dif: inline static mesh material lists are not supported")

type Primitive struct {
	Alpha             uint8
	TexS              uint32
	TexT              uint32
	DiffuseIndex      int32
	LightMapIndex     int32
	Start             uint32
	Count             uint32
	LightMapEquationX geom.PlaneF
	LightMapEquationY geom.PlaneF
	LightMapOffset    geom.Point2I
	LightMapSize      geom.Point2I
}

func readPrimitive(r *wire.Reader) Primitive {
	return Primitive{
		Alpha:             r.U8(),
		TexS:              r.U32(),
		TexT:              r.U32(),
		DiffuseIndex:      r.I32(),
		LightMapIndex:     r.I32(),
		Start:             r.U32(),
		Count:             r.U32(),
		LightMapEquationX: geom.ReadPlaneF(r),
		LightMapEquationY: geom.ReadPlaneF(r),
		LightMapOffset:    geom.ReadPoint2I(r),
		LightMapSize:      geom.ReadPoint2I(r),
	}
}

func (p Primitive) write(w *wire.Writer) {
	w.U8(p.Alpha)
	w.U32(p.TexS)
	w.U32(p.TexT)
	w.I32(p.DiffuseIndex)
	w.I32(p.LightMapIndex)
	w.U32(p.Start)
	w.U32(p.Count)
	p.LightMapEquationX.Write(w)
	p.LightMapEquationY.Write(w)
	p.LightMapOffset.Write(w)
	p.LightMapSize.Write(w)
}

type StaticMesh struct {
	Primitives        []Primitive
	Indices           []uint16
	Vertexes          []geom.Point3F
	Normals           []geom.Point3F
	DiffuseUVs        []geom.Point2F
	LightmapUVs       []geom.Point2F
	BaseMaterialList  *MaterialList
	HasSolid          uint8
	HasTranslucency   uint8
	Bounds            geom.BoxF
	Transform         geom.MatrixF
	Scale             geom.Point3F
}

// MaterialList is an inline bitmap texture table embedded in a static mesh.
type MaterialList struct {
	Materials []Material
}

type Material struct {
	Flags            uint32
	ReflectanceMap   uint32
	BumpMap          uint32
	DetailMap        uint32
	LightMap         uint32
	DetailScale      uint32
	ReflectionAmount uint32
	DiffuseBitmap    []byte
}

func readStaticMesh(r *wire.Reader) (StaticMesh, error) {
	sm := StaticMesh{
		Primitives:  wire.ReadVecFn(r, readPrimitive),
		Indices:     wire.ReadVecFn(r, (*wire.Reader).U16),
		Vertexes:    wire.ReadVecFn(r, geom.ReadPoint3F),
		Normals:     wire.ReadVecFn(r, geom.ReadPoint3F),
		DiffuseUVs:  wire.ReadVecFn(r, geom.ReadPoint2F),
		LightmapUVs: wire.ReadVecFn(r, geom.ReadPoint2F),
	}
	if r.U8() != 0 {
		return StaticMesh{}, ErrMaterialListUnsupported
	}
	sm.HasSolid = r.U8()
	sm.HasTranslucency = r.U8()
	sm.Bounds = geom.ReadBoxF(r)
	sm.Transform = geom.ReadMatrixF(r)
	sm.Scale = geom.ReadPoint3F(r)
	if r.Err() != nil {
		return StaticMesh{}, r.Err()
	}
	return sm, nil
}

func (s StaticMesh) write(w *wire.Writer) error {
	wire.WriteVecFn(w, s.Primitives, func(w *wire.Writer, p Primitive) { p.write(w) })
	wire.WriteVecFn(w, s.Indices, (*wire.Writer).U16)
	wire.WriteVecFn(w, s.Vertexes, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	wire.WriteVecFn(w, s.Normals, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	wire.WriteVecFn(w, s.DiffuseUVs, func(w *wire.Writer, p geom.Point2F) { p.Write(w) })
	wire.WriteVecFn(w, s.LightmapUVs, func(w *wire.Writer, p geom.Point2F) { p.Write(w) })
	if s.BaseMaterialList != nil {
		return ErrMaterialListUnsupported
	}
	w.U8(0)
	w.U8(s.HasSolid)
	w.U8(s.HasTranslucency)
	s.Bounds.Write(w)
	s.Transform.Write(w)
	s.Scale.Write(w)
	return w.Err()
}
