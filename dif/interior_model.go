package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
	"github.com/vertexsoup/difbuilder/wire"
)

// Interior is the BSP geometry record produced by a build: the bulk of a
// DIF file's content. Field order and version gating are grounded on
// original_source/libdif/src/interior.rs; this module only ever reads or
// writes interior version 0 (MBG), so most of its version-conditional
// branches below are dead code paths preserved for fidelity with the
// reference record, not load-bearing behavior.
type Interior struct {
	DetailLevel           uint32
	MinPixels             uint32
	BoundingBox           geom.BoxF
	BoundingSphere        geom.SphereF
	HasAlarmState         uint8
	NumLightStateEntries  uint32

	Normals         []geom.Point3F
	Planes          []Plane
	Points          []geom.Point3F
	PointVisibility []uint8
	TexGenEqs       []TexGenEq
	BSPNodes        []BSPNode
	BSPSolidLeaves  []BSPSolidLeaf

	MaterialNames  []string
	Indices        []idx.PointIndex
	WindingIndices []WindingIndex
	Edges          []Edge
	Zones          []Zone
	ZoneSurfaces   []idx.SurfaceIndex
	ZoneStaticMeshes []idx.StaticMeshIndex
	ZonePortalLists  []idx.PortalIndex
	Portals          []Portal
	Surfaces         []Surface
	Edge2s           []Edge2
	Normal2s         []geom.Point3F
	NormalIndices    []idx.NormalIndex
	NormalLMapIndices []idx.LMapIndex
	AlarmLMapIndices  []idx.LMapIndex
	NullSurfaces      []NullSurface
	LightMaps         []LightMap
	SolidLeafSurfaces []idx.PossiblyNullSurfaceIndex
	AnimatedLights    []AnimatedLight
	LightStates       []LightState
	StateDatas        []StateData
	StateDataBuffers  []StateData

	Flags uint32

	NameBufferCharacters []byte

	SubObjects []SubObject

	ConvexHulls                    []ConvexHull
	ConvexHullEmitStringCharacters []byte
	HullIndices                    []idx.PointIndex
	HullPlaneIndices               []idx.PlaneIndex
	HullEmitStringIndices          []idx.EmitStringIndex
	HullSurfaceIndices             []idx.PossiblyNullSurfaceIndex
	PolyListPlaneIndices           []idx.PlaneIndex
	PolyListPointIndices           []idx.PointIndex
	PolyListStringCharacters       []byte
	CoordBins                      [256]CoordBin
	CoordBinIndices                []idx.ConvexHullIndex

	CoordBinMode      uint32
	BaseAmbientColor  geom.ColorI
	AlarmAmbientColor geom.ColorI

	StaticMeshes     []StaticMesh
	TexNormals       []geom.Point3F
	TexMatrices      []TexMatrix
	TexMatrixIndices []idx.TexMatrixIndex

	ExtendedLightMapData uint32
	LightMapBorderSize   uint32
}

// ReadInterior decodes an Interior, threading the shared Version through
// every field so later records in the same Dif (material lists, vehicle
// collisions) see the engine/sub-version it settles on.
func ReadInterior(r *wire.Reader, v *Version) (*Interior, error) {
	v.Interior = r.U32()
	if v.Interior > 14 {
		return nil, ErrUnsupportedInteriorVersion
	}
	if v.Interior != 0 {
		return nil, ErrNonMBGInterior
	}

	in := &Interior{}
	in.DetailLevel = r.U32()
	in.MinPixels = r.U32()
	in.BoundingBox = geom.ReadBoxF(r)
	in.BoundingSphere = geom.ReadSphereF(r)
	in.HasAlarmState = r.U8()
	in.NumLightStateEntries = r.U32()

	in.Normals = wire.ReadVecFn(r, geom.ReadPoint3F)
	in.Planes = wire.ReadVecFn(r, readPlane)
	in.Points = wire.ReadVecFn(r, geom.ReadPoint3F)

	if v.Interior != 4 {
		in.PointVisibility = wire.ReadVecFn(r, (*wire.Reader).U8)
	}

	in.TexGenEqs = wire.ReadVecFn(r, readTexGenEq)
	in.BSPNodes = wire.ReadVecFn(r, func(r *wire.Reader) BSPNode { return readBSPNode(r, v.Interior) })
	in.BSPSolidLeaves = wire.ReadVecFn(r, readBSPSolidLeaf)

	v.MaterialList = r.U8()
	in.MaterialNames = wire.ReadVecFn(r, (*wire.Reader).String)

	in.Indices = wire.ReadVecFnNarrow(r,
		func(r *wire.Reader) idx.PointIndex { return idx.ReadPointIndex(r) },
		func(r *wire.Reader, _ uint8) idx.PointIndex { return idx.PointIndex(r.U16()) },
	)
	in.WindingIndices = wire.ReadVecFn(r, readWindingIndex)
	if v.Interior >= 12 {
		in.Edges = wire.ReadVecFn(r, readEdge)
	}
	in.Zones = wire.ReadVecFn(r, func(r *wire.Reader) Zone { return readZone(r, v.Interior) })
	in.ZoneSurfaces = wire.ReadVecFn(r, func(r *wire.Reader) idx.SurfaceIndex { return idx.ReadSurfaceIndex(r) })
	if v.Interior >= 12 {
		in.ZoneStaticMeshes = wire.ReadVecFn(r, func(r *wire.Reader) idx.StaticMeshIndex { return idx.ReadStaticMeshIndex(r) })
	}
	in.ZonePortalLists = wire.ReadVecFn(r, func(r *wire.Reader) idx.PortalIndex { return idx.ReadPortalIndex(r) })
	in.Portals = wire.ReadVecFn(r, readPortal)

	if v.Engine == EngineUnknown {
		v.Engine = EngineMBG
	}
	surfaceCount := r.U32()
	surfaces := make([]Surface, 0, surfaceCount)
	for i := uint32(0); i < surfaceCount && r.Err() == nil; i++ {
		s, err := readSurface(r, v, len(in.Indices), len(in.Planes), len(in.MaterialNames), len(in.TexGenEqs))
		if err != nil {
			return nil, err
		}
		surfaces = append(surfaces, s)
	}
	in.Surfaces = surfaces

	if v.Interior >= 2 && v.Interior <= 5 {
		in.Edge2s = wire.ReadVecFn(r, func(r *wire.Reader) Edge2 { return readEdge2(r, v.Interior) })
	}
	if v.Interior >= 4 && v.Interior <= 5 {
		in.Normal2s = wire.ReadVecFn(r, geom.ReadPoint3F)
	}
	if v.Interior >= 4 && v.Interior <= 5 {
		in.NormalIndices = wire.ReadVecForceNarrow(r, func(r *wire.Reader) idx.NormalIndex { return idx.NormalIndex(r.U8()) })
	}

	if v.Interior >= 13 {
		in.NormalLMapIndices = wire.ReadVecFn(r, func(r *wire.Reader) idx.LMapIndex { return idx.ReadLMapIndex(r) })
	} else {
		in.NormalLMapIndices = wire.ReadVecForceNarrow(r, func(r *wire.Reader) idx.LMapIndex { return idx.LMapIndex(r.U8()) })
	}
	if v.Interior >= 13 {
		in.AlarmLMapIndices = wire.ReadVecFn(r, func(r *wire.Reader) idx.LMapIndex { return idx.ReadLMapIndex(r) })
	} else if v.Interior != 4 {
		in.AlarmLMapIndices = wire.ReadVecForceNarrow(r, func(r *wire.Reader) idx.LMapIndex { return idx.LMapIndex(r.U8()) })
	}

	nullSurfaceCount := r.U32()
	nullSurfaces := make([]NullSurface, 0, nullSurfaceCount)
	for i := uint32(0); i < nullSurfaceCount && r.Err() == nil; i++ {
		ns, err := readNullSurface(r, v.Interior)
		if err != nil {
			return nil, err
		}
		nullSurfaces = append(nullSurfaces, ns)
	}
	in.NullSurfaces = nullSurfaces

	if v.Interior != 4 {
		in.LightMaps = wire.ReadVecFn(r, func(r *wire.Reader) LightMap { return readLightMap(r, v) })
	}
	if len(in.LightMaps) > 0 && v.Engine == EngineMBG {
		v.Engine = EngineTGE
	}

	in.SolidLeafSurfaces = wire.ReadVecFnNarrow(r,
		idx.ReadPossiblyNullSurfaceIndex,
		func(r *wire.Reader, _ uint8) idx.PossiblyNullSurfaceIndex { return idx.ReadPossiblyNullSurfaceIndexNarrow(r) },
	)
	in.AnimatedLights = wire.ReadVecFn(r, readAnimatedLight)
	in.LightStates = wire.ReadVecFn(r, readLightState)

	if v.Interior != 4 {
		in.StateDatas = wire.ReadVecFn(r, readStateData)
	}
	if v.Interior != 4 {
		buffers, flags := wire.ReadVecExtra(r, (*wire.Reader).U32, readStateData)
		in.StateDataBuffers = buffers
		in.Flags = flags
	}

	if v.Interior != 4 {
		in.NameBufferCharacters = wire.ReadVecFn(r, (*wire.Reader).U8)
	}

	if v.Interior != 4 {
		count := r.U32()
		if count > 0 {
			return nil, ErrSubObjectUnsupported
		}
	}

	in.ConvexHulls = wire.ReadVecFn(r, func(r *wire.Reader) ConvexHull { return readConvexHull(r, v.Interior) })
	in.ConvexHullEmitStringCharacters = wire.ReadVecFn(r, (*wire.Reader).U8)

	in.HullIndices = wire.ReadVecFnNarrow(r,
		func(r *wire.Reader) idx.PointIndex { return idx.ReadPointIndex(r) },
		func(r *wire.Reader, _ uint8) idx.PointIndex { return idx.PointIndex(r.U16()) },
	)
	in.HullPlaneIndices = wire.ReadVecForceNarrow(r, func(r *wire.Reader) idx.PlaneIndex { return idx.ReadPlaneIndex(r) })
	in.HullEmitStringIndices = wire.ReadVecFnNarrow(r,
		func(r *wire.Reader) idx.EmitStringIndex { return idx.ReadEmitStringIndex(r) },
		func(r *wire.Reader, _ uint8) idx.EmitStringIndex { return idx.EmitStringIndex(r.U16()) },
	)
	in.HullSurfaceIndices = wire.ReadVecFnNarrow(r,
		idx.ReadPossiblyNullSurfaceIndex,
		func(r *wire.Reader, _ uint8) idx.PossiblyNullSurfaceIndex { return idx.ReadPossiblyNullSurfaceIndexNarrow(r) },
	)
	in.PolyListPlaneIndices = wire.ReadVecForceNarrow(r, func(r *wire.Reader) idx.PlaneIndex { return idx.ReadPlaneIndex(r) })
	in.PolyListPointIndices = wire.ReadVecFnNarrow(r,
		func(r *wire.Reader) idx.PointIndex { return idx.ReadPointIndex(r) },
		func(r *wire.Reader, _ uint8) idx.PointIndex { return idx.PointIndex(r.U16()) },
	)
	in.PolyListStringCharacters = wire.ReadVecFn(r, (*wire.Reader).U8)

	for i := range in.CoordBins {
		in.CoordBins[i] = readCoordBin(r)
	}

	in.CoordBinIndices = wire.ReadVecForceNarrow(r, func(r *wire.Reader) idx.ConvexHullIndex { return idx.ReadConvexHullIndex(r) })
	in.CoordBinMode = r.U32()

	if v.Interior != 4 {
		in.BaseAmbientColor = geom.ReadColorI(r)
	} else {
		in.BaseAmbientColor = geom.ColorI{A: 255}
	}
	if v.Interior != 4 {
		in.AlarmAmbientColor = geom.ReadColorI(r)
	} else {
		in.AlarmAmbientColor = geom.ColorI{A: 255}
	}

	if v.Interior >= 10 {
		meshes := make([]StaticMesh, 0)
		n := r.U32()
		for i := uint32(0); i < n && r.Err() == nil; i++ {
			sm, err := readStaticMesh(r)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, sm)
		}
		in.StaticMeshes = meshes
	}

	if v.Interior >= 11 {
		in.TexNormals = wire.ReadVecFn(r, geom.ReadPoint3F)
	} else if v.Interior != 4 {
		r.U32()
	}
	if v.Interior >= 11 {
		in.TexMatrices = wire.ReadVecFn(r, readTexMatrix)
	} else if v.Interior != 4 {
		r.U32()
	}
	if v.Interior >= 11 {
		in.TexMatrixIndices = wire.ReadVecFn(r, func(r *wire.Reader) idx.TexMatrixIndex { return idx.ReadTexMatrixIndex(r) })
	} else if v.Interior != 4 {
		r.U32()
	}

	if v.Interior != 4 {
		in.ExtendedLightMapData = r.U32()
		if in.ExtendedLightMapData != 0 {
			in.LightMapBorderSize = r.U32()
			r.U32()
		}
	}

	if r.Err() != nil {
		return nil, r.Err()
	}
	return in, nil
}

// Write encodes the Interior. v.Interior must be 0 (the only version this
// module ever produces); a non-MBG version here is a programmer error, not
// a malformed-input condition, since callers such as cmd/difbuild construct
// v via NewMBGVersion.
func (in *Interior) Write(w *wire.Writer, v *Version) error {
	w.U32(v.Interior)
	w.U32(in.DetailLevel)
	w.U32(in.MinPixels)
	in.BoundingBox.Write(w)
	in.BoundingSphere.Write(w)
	w.U8(in.HasAlarmState)
	w.U32(in.NumLightStateEntries)

	wire.WriteVecFn(w, in.Normals, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	wire.WriteVecFn(w, in.Planes, func(w *wire.Writer, p Plane) { p.write(w) })
	wire.WriteVecFn(w, in.Points, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	if v.Interior != 4 {
		wire.WriteVecFn(w, in.PointVisibility, (*wire.Writer).U8)
	}
	wire.WriteVecFn(w, in.TexGenEqs, func(w *wire.Writer, t TexGenEq) { t.write(w) })
	wire.WriteVecFn(w, in.BSPNodes, func(w *wire.Writer, n BSPNode) { n.write(w, v.Interior) })
	wire.WriteVecFn(w, in.BSPSolidLeaves, func(w *wire.Writer, l BSPSolidLeaf) { l.write(w) })

	w.U8(v.MaterialList)
	wire.WriteVecFn(w, in.MaterialNames, (*wire.Writer).String)

	wire.WriteVecFn(w, in.Indices, func(w *wire.Writer, p idx.PointIndex) { p.Write(w) })
	wire.WriteVecFn(w, in.WindingIndices, func(w *wire.Writer, wi WindingIndex) { wi.write(w) })
	if v.Interior >= 12 {
		wire.WriteVecFn(w, in.Edges, func(w *wire.Writer, e Edge) { e.write(w) })
	}
	wire.WriteVecFn(w, in.Zones, func(w *wire.Writer, z Zone) { z.write(w, v.Interior) })
	wire.WriteVecFn(w, in.ZoneSurfaces, func(w *wire.Writer, s idx.SurfaceIndex) { s.Write(w) })
	if v.Interior >= 12 {
		wire.WriteVecFn(w, in.ZoneStaticMeshes, func(w *wire.Writer, s idx.StaticMeshIndex) { s.Write(w) })
	}
	wire.WriteVecFn(w, in.ZonePortalLists, func(w *wire.Writer, p idx.PortalIndex) { p.Write(w) })
	wire.WriteVecFn(w, in.Portals, func(w *wire.Writer, p Portal) { p.write(w) })
	wire.WriteVecFn(w, in.Surfaces, func(w *wire.Writer, s Surface) { s.write(w, v) })

	if v.Interior >= 2 && v.Interior <= 5 {
		wire.WriteVecFn(w, in.Edge2s, func(w *wire.Writer, e Edge2) { e.write(w, v.Interior) })
	}
	if v.Interior >= 4 && v.Interior <= 5 {
		wire.WriteVecFn(w, in.Normal2s, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	}
	if v.Interior >= 4 && v.Interior <= 5 {
		wire.WriteVecForceNarrow(w, in.NormalIndices, func(w *wire.Writer, n idx.NormalIndex) { w.U8(uint8(n)) })
	}

	if v.Interior >= 13 {
		wire.WriteVecFn(w, in.NormalLMapIndices, func(w *wire.Writer, l idx.LMapIndex) { l.Write(w) })
	} else {
		wire.WriteVecForceNarrow(w, in.NormalLMapIndices, func(w *wire.Writer, l idx.LMapIndex) { w.U8(uint8(l)) })
	}
	if v.Interior >= 13 {
		wire.WriteVecFn(w, in.AlarmLMapIndices, func(w *wire.Writer, l idx.LMapIndex) { l.Write(w) })
	} else if v.Interior != 4 {
		wire.WriteVecForceNarrow(w, in.AlarmLMapIndices, func(w *wire.Writer, l idx.LMapIndex) { w.U8(uint8(l)) })
	}

	wire.WriteVecFn(w, in.NullSurfaces, func(w *wire.Writer, n NullSurface) { n.write(w, v.Interior) })

	if v.Interior != 4 {
		wire.WriteVecFn(w, in.LightMaps, func(w *wire.Writer, l LightMap) { l.write(w, v) })
	}

	wire.WriteVecFn(w, in.SolidLeafSurfaces, func(w *wire.Writer, p idx.PossiblyNullSurfaceIndex) { p.Write(w) })
	wire.WriteVecFn(w, in.AnimatedLights, func(w *wire.Writer, a AnimatedLight) { a.write(w) })
	wire.WriteVecFn(w, in.LightStates, func(w *wire.Writer, l LightState) { l.write(w) })

	if v.Interior != 4 {
		wire.WriteVecFn(w, in.StateDatas, func(w *wire.Writer, s StateData) { s.write(w) })
	}
	if v.Interior != 4 {
		wire.WriteVecExtra(w, in.StateDataBuffers, in.Flags,
			func(w *wire.Writer, flags uint32) { w.U32(flags) },
			func(w *wire.Writer, s StateData) { s.write(w) },
		)
	}
	if v.Interior != 4 {
		wire.WriteVecFn(w, in.NameBufferCharacters, (*wire.Writer).U8)
	}
	if v.Interior != 4 {
		if len(in.SubObjects) > 0 {
			return ErrSubObjectUnsupported
		}
		w.U32(0)
	}

	wire.WriteVecFn(w, in.ConvexHulls, func(w *wire.Writer, c ConvexHull) { c.write(w, v.Interior) })
	wire.WriteVecFn(w, in.ConvexHullEmitStringCharacters, (*wire.Writer).U8)

	wire.WriteVecFn(w, in.HullIndices, func(w *wire.Writer, p idx.PointIndex) { p.Write(w) })
	wire.WriteVecForceNarrow(w, in.HullPlaneIndices, func(w *wire.Writer, p idx.PlaneIndex) { p.Write(w) })
	wire.WriteVecFn(w, in.HullEmitStringIndices, func(w *wire.Writer, e idx.EmitStringIndex) { e.Write(w) })
	wire.WriteVecFn(w, in.HullSurfaceIndices, func(w *wire.Writer, p idx.PossiblyNullSurfaceIndex) { p.Write(w) })
	wire.WriteVecForceNarrow(w, in.PolyListPlaneIndices, func(w *wire.Writer, p idx.PlaneIndex) { p.Write(w) })
	wire.WriteVecFn(w, in.PolyListPointIndices, func(w *wire.Writer, p idx.PointIndex) { p.Write(w) })
	wire.WriteVecFn(w, in.PolyListStringCharacters, (*wire.Writer).U8)

	for _, bin := range in.CoordBins {
		bin.write(w)
	}

	wire.WriteVecForceNarrow(w, in.CoordBinIndices, func(w *wire.Writer, c idx.ConvexHullIndex) { c.Write(w) })
	w.U32(in.CoordBinMode)

	if v.Interior != 4 {
		in.BaseAmbientColor.Write(w)
	}
	if v.Interior != 4 {
		in.AlarmAmbientColor.Write(w)
	}

	if v.Interior >= 10 {
		w.U32(uint32(len(in.StaticMeshes)))
		for _, sm := range in.StaticMeshes {
			if err := sm.write(w); err != nil {
				return err
			}
		}
	}

	if v.Interior >= 11 {
		wire.WriteVecFn(w, in.TexNormals, func(w *wire.Writer, p geom.Point3F) { p.Write(w) })
	} else if v.Interior != 4 {
		w.U32(0)
	}
	if v.Interior >= 11 {
		wire.WriteVecFn(w, in.TexMatrices, func(w *wire.Writer, t TexMatrix) { t.write(w) })
	} else if v.Interior != 4 {
		w.U32(0)
	}
	if v.Interior >= 11 {
		wire.WriteVecFn(w, in.TexMatrixIndices, func(w *wire.Writer, t idx.TexMatrixIndex) { t.Write(w) })
	} else if v.Interior != 4 {
		w.U32(0)
	}

	if v.Interior != 4 {
		w.U32(in.ExtendedLightMapData)
		if in.ExtendedLightMapData != 0 {
			w.U32(in.LightMapBorderSize)
			w.U32(0)
		}
	}

	return w.Err()
}
