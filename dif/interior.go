package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
	"github.com/vertexsoup/difbuilder/wire"
)

// SurfaceFlags is a bitmask over a surface's rendering/visibility behavior.
type SurfaceFlags uint8

const (
	SurfaceDetail          SurfaceFlags = 0b1
	SurfaceAmbiguous       SurfaceFlags = 0b10
	SurfaceOrphan          SurfaceFlags = 0b100
	SurfaceSharedLightMaps SurfaceFlags = 0b1000
	SurfaceOutsideVisible  SurfaceFlags = 0b10000
	surfaceFlagsMask       SurfaceFlags = 0b11111
)

func readSurfaceFlags(r *wire.Reader) (SurfaceFlags, error) {
	b := r.U8()
	f := SurfaceFlags(b)
	if f&^surfaceFlagsMask != 0 {
		return 0, ErrInvalidSurfaceFlags
	}
	return f, nil
}

type Plane struct {
	NormalIndex   idx.NormalIndex
	PlaneDistance float32
}

func readPlane(r *wire.Reader) Plane {
	return Plane{NormalIndex: idx.ReadNormalIndex(r), PlaneDistance: r.F32()}
}
func (p Plane) write(w *wire.Writer) {
	p.NormalIndex.Write(w)
	w.F32(p.PlaneDistance)
}

type TexGenEq struct {
	PlaneX, PlaneY geom.PlaneF
}

func readTexGenEq(r *wire.Reader) TexGenEq {
	return TexGenEq{PlaneX: geom.ReadPlaneF(r), PlaneY: geom.ReadPlaneF(r)}
}
func (t TexGenEq) write(w *wire.Writer) {
	t.PlaneX.Write(w)
	t.PlaneY.Write(w)
}

// ToOrd projects a TexGenEq into geom's epsilon-comparable shape.
func (t TexGenEq) ToOrd() geom.TexGenEq {
	return geom.TexGenEq{
		PlaneX: [4]float32{t.PlaneX.Normal.X, t.PlaneX.Normal.Y, t.PlaneX.Normal.Z, t.PlaneX.Distance},
		PlaneY: [4]float32{t.PlaneY.Normal.X, t.PlaneY.Normal.Y, t.PlaneY.Normal.Z, t.PlaneY.Distance},
	}
}

type BSPNode struct {
	PlaneIndex idx.PlaneIndex
	Front      idx.BSPIndex
	Back       idx.BSPIndex
}

func readBSPNode(r *wire.Reader, interiorVersion uint32) BSPNode {
	plane := idx.ReadPlaneIndex(r)
	front := idx.ReadBSPIndex(r, interiorVersion)
	back := idx.ReadBSPIndex(r, interiorVersion)
	return BSPNode{PlaneIndex: plane, Front: front, Back: back}
}
func (n BSPNode) write(w *wire.Writer, interiorVersion uint32) {
	n.PlaneIndex.Write(w)
	n.Front.Write(w, interiorVersion)
	n.Back.Write(w, interiorVersion)
}

type BSPSolidLeaf struct {
	SurfaceIndex idx.SolidLeafSurfaceIndex
	SurfaceCount uint16
}

func readBSPSolidLeaf(r *wire.Reader) BSPSolidLeaf {
	return BSPSolidLeaf{SurfaceIndex: idx.ReadSolidLeafSurfaceIndex(r), SurfaceCount: r.U16()}
}
func (l BSPSolidLeaf) write(w *wire.Writer) {
	l.SurfaceIndex.Write(w)
	w.U16(l.SurfaceCount)
}

type WindingIndex struct {
	WindingStart idx.PointIndex
	WindingCount uint32
}

func readWindingIndex(r *wire.Reader) WindingIndex {
	return WindingIndex{WindingStart: idx.ReadPointIndex(r), WindingCount: r.U32()}
}
func (w2 WindingIndex) write(w *wire.Writer) {
	w2.WindingStart.Write(w)
	w.U32(w2.WindingCount)
}

type Edge struct {
	PointIndex0, PointIndex1     int32
	SurfaceIndex0, SurfaceIndex1 int32
}

func readEdge(r *wire.Reader) Edge {
	return Edge{PointIndex0: r.I32(), PointIndex1: r.I32(), SurfaceIndex0: r.I32(), SurfaceIndex1: r.I32()}
}
func (e Edge) write(w *wire.Writer) {
	w.I32(e.PointIndex0)
	w.I32(e.PointIndex1)
	w.I32(e.SurfaceIndex0)
	w.I32(e.SurfaceIndex1)
}

type Zone struct {
	PortalStart      idx.PortalIndex
	PortalCount      uint16
	SurfaceStart     uint32
	SurfaceCount     uint32
	StaticMeshStart  idx.StaticMeshIndex
	StaticMeshCount  uint32
}

func readZone(r *wire.Reader, interiorVersion uint32) Zone {
	z := Zone{
		PortalStart:  idx.ReadPortalIndex(r),
		PortalCount:  r.U16(),
		SurfaceStart: r.U32(),
		SurfaceCount: r.U32(),
	}
	if interiorVersion >= 12 {
		z.StaticMeshStart = idx.ReadStaticMeshIndex(r)
		z.StaticMeshCount = r.U32()
	}
	return z
}
func (z Zone) write(w *wire.Writer, interiorVersion uint32) {
	z.PortalStart.Write(w)
	w.U16(z.PortalCount)
	w.U32(z.SurfaceStart)
	w.U32(z.SurfaceCount)
	if interiorVersion >= 12 {
		z.StaticMeshStart.Write(w)
		w.U32(z.StaticMeshCount)
	}
}

type Portal struct {
	PlaneIndex  idx.PlaneIndex
	TriFanCount uint16
	TriFanStart idx.WindingIndexIndex
	ZoneFront   idx.ZoneIndex
	ZoneBack    idx.ZoneIndex
}

func readPortal(r *wire.Reader) Portal {
	return Portal{
		PlaneIndex:  idx.ReadPlaneIndex(r),
		TriFanCount: r.U16(),
		TriFanStart: idx.ReadWindingIndexIndex(r),
		ZoneFront:   idx.ReadZoneIndex(r),
		ZoneBack:    idx.ReadZoneIndex(r),
	}
}
func (p Portal) write(w *wire.Writer) {
	p.PlaneIndex.Write(w)
	w.U16(p.TriFanCount)
	p.TriFanStart.Write(w)
	p.ZoneFront.Write(w)
	p.ZoneBack.Write(w)
}

type SurfaceLightMap struct {
	FinalWord       uint16
	TexGenXDistance float32
	TexGenYDistance float32
}

func readSurfaceLightMap(r *wire.Reader) SurfaceLightMap {
	return SurfaceLightMap{FinalWord: r.U16(), TexGenXDistance: r.F32(), TexGenYDistance: r.F32()}
}
func (s SurfaceLightMap) write(w *wire.Writer) {
	w.U16(s.FinalWord)
	w.F32(s.TexGenXDistance)
	w.F32(s.TexGenYDistance)
}

type Surface struct {
	WindingStart        idx.WindingIndexIndex
	WindingCount        uint32
	PlaneIndex          idx.PlaneIndex
	PlaneFlipped        bool
	TextureIndex        idx.TextureIndex
	TexGenIndex         idx.TexGenIndex
	SurfaceFlags        SurfaceFlags
	FanMask             uint32
	LightMap            SurfaceLightMap
	LightCount          uint16
	LightStateInfoStart uint32
	MapOffsetX          uint32
	MapOffsetY          uint32
	MapSizeX            uint32
	MapSizeY            uint32
	BrushID             uint32
}

// readSurface decodes the MBG (non-TGE-wide) surface layout: original_source
// tries a wide TGEA read first and falls back to this simpler layout; since
// this module targets MBG only, we go straight to it and require
// interior == 0 upstream in ReadInterior.
func readSurface(r *wire.Reader, v *Version, indicesLen, planesLen, materialNamesLen, texGenEqsLen int) (Surface, error) {
	windingStart := r.U32()
	var windingCount uint32
	if v.Interior >= 13 {
		windingCount = r.U32()
	} else {
		windingCount = uint32(r.U8())
	}
	if uint64(windingStart)+uint64(windingCount) > uint64(indicesLen) {
		return Surface{}, ErrSurfaceIndexOOB
	}

	rawPlaneIndex := r.U16()
	flipped := rawPlaneIndex&0x8000 != 0
	rawPlaneIndex &^= 0x8000
	if int(rawPlaneIndex) >= planesLen {
		return Surface{}, ErrSurfaceIndexOOB
	}

	textureIndex := r.U16()
	if int(textureIndex) >= materialNamesLen {
		return Surface{}, ErrSurfaceIndexOOB
	}

	texGenIndex := r.U32()
	if int(texGenIndex) >= texGenEqsLen {
		return Surface{}, ErrSurfaceIndexOOB
	}

	flags, err := readSurfaceFlags(r)
	if err != nil {
		return Surface{}, err
	}
	fanMask := r.U32()
	lightMap := readSurfaceLightMap(r)
	lightCount := r.U16()
	lightStateInfoStart := r.U32()

	readDim := func() uint32 {
		if v.Interior >= 13 {
			return r.U32()
		}
		return uint32(r.U8())
	}
	mapOffsetX := readDim()
	mapOffsetY := readDim()
	mapSizeX := readDim()
	mapSizeY := readDim()

	var brushID uint32
	if !v.IsTGE() {
		r.U8()
		if v.Interior >= 2 && v.Interior <= 5 {
			brushID = r.U32()
		}
	}

	if r.Err() != nil {
		return Surface{}, r.Err()
	}

	return Surface{
		WindingStart:        idx.WindingIndexIndex(windingStart),
		WindingCount:        windingCount,
		PlaneIndex:          idx.PlaneIndex(rawPlaneIndex),
		PlaneFlipped:        flipped,
		TextureIndex:        idx.TextureIndex(textureIndex),
		TexGenIndex:         idx.TexGenIndex(texGenIndex),
		SurfaceFlags:        flags,
		FanMask:             fanMask,
		LightMap:            lightMap,
		LightCount:          lightCount,
		LightStateInfoStart: lightStateInfoStart,
		MapOffsetX:          mapOffsetX,
		MapOffsetY:          mapOffsetY,
		MapSizeX:            mapSizeX,
		MapSizeY:            mapSizeY,
		BrushID:             brushID,
	}, nil
}

func (s Surface) write(w *wire.Writer, v *Version) {
	w.U32(uint32(s.WindingStart))
	if v.Interior >= 13 {
		w.U32(s.WindingCount)
	} else {
		w.U8(uint8(s.WindingCount))
	}
	rawPlaneIndex := uint16(s.PlaneIndex)
	if s.PlaneFlipped {
		rawPlaneIndex |= 0x8000
	}
	w.U16(rawPlaneIndex)
	s.TextureIndex.Write(w)
	s.TexGenIndex.Write(w)
	w.U8(uint8(s.SurfaceFlags))
	w.U32(s.FanMask)
	s.LightMap.write(w)
	w.U16(s.LightCount)
	w.U32(s.LightStateInfoStart)

	writeDim := func(d uint32) {
		if v.Interior >= 13 {
			w.U32(d)
		} else {
			w.U8(uint8(d))
		}
	}
	writeDim(s.MapOffsetX)
	writeDim(s.MapOffsetY)
	writeDim(s.MapSizeX)
	writeDim(s.MapSizeY)

	if !v.IsTGE() {
		w.U8(0)
		if v.Interior >= 2 && v.Interior <= 5 {
			w.U32(s.BrushID)
		}
	}
}

type Edge2 struct {
	Vertices [2]uint32
	Normals  [2]uint32
	Faces    [2]uint32
}

func readEdge2(r *wire.Reader, interiorVersion uint32) Edge2 {
	e := Edge2{
		Vertices: [2]uint32{r.U32(), r.U32()},
		Normals:  [2]uint32{r.U32(), r.U32()},
	}
	if interiorVersion >= 3 {
		e.Faces = [2]uint32{r.U32(), r.U32()}
	}
	return e
}
func (e Edge2) write(w *wire.Writer, interiorVersion uint32) {
	w.U32(e.Vertices[0])
	w.U32(e.Vertices[1])
	w.U32(e.Normals[0])
	w.U32(e.Normals[1])
	if interiorVersion >= 3 {
		w.U32(e.Faces[0])
		w.U32(e.Faces[1])
	}
}

type NullSurface struct {
	WindingStart idx.WindingIndexIndex
	PlaneIndex   idx.PlaneIndex
	SurfaceFlags SurfaceFlags
	WindingCount uint8
}

func readNullSurface(r *wire.Reader, interiorVersion uint32) (NullSurface, error) {
	windingStart := idx.ReadWindingIndexIndex(r)
	planeIndex := idx.ReadPlaneIndex(r)
	flags, err := readSurfaceFlags(r)
	if err != nil {
		return NullSurface{}, err
	}
	var windingCount uint8
	if interiorVersion >= 13 {
		windingCount = uint8(r.U32())
	} else {
		windingCount = r.U8()
	}
	return NullSurface{WindingStart: windingStart, PlaneIndex: planeIndex, SurfaceFlags: flags, WindingCount: windingCount}, nil
}
func (n NullSurface) write(w *wire.Writer, interiorVersion uint32) {
	n.WindingStart.Write(w)
	n.PlaneIndex.Write(w)
	w.U8(uint8(n.SurfaceFlags))
	if interiorVersion >= 13 {
		w.U32(uint32(n.WindingCount))
	} else {
		w.U8(n.WindingCount)
	}
}

type LightMap struct {
	LightMap      []byte
	LightDirMap   []byte // nil when the engine variant folds light dir into LightMap (MBG/TGE)
	KeepLightMap  uint8
}

func readLightMap(r *wire.Reader, v *Version) LightMap {
	lm := LightMap{LightMap: r.PNG()}
	if !v.IsTGE() {
		lm.LightDirMap = r.PNG()
	}
	lm.KeepLightMap = r.U8()
	return lm
}
func (l LightMap) write(w *wire.Writer, v *Version) {
	w.PNG(l.LightMap)
	if !v.IsTGE() && l.LightDirMap != nil {
		w.PNG(l.LightDirMap)
	}
	w.U8(l.KeepLightMap)
}

type AnimatedLight struct {
	NameIndex  uint32
	StateIndex uint32
	StateCount uint16
	Flags      uint16
	Duration   uint32
}

func readAnimatedLight(r *wire.Reader) AnimatedLight {
	return AnimatedLight{NameIndex: r.U32(), StateIndex: r.U32(), StateCount: r.U16(), Flags: r.U16(), Duration: r.U32()}
}
func (a AnimatedLight) write(w *wire.Writer) {
	w.U32(a.NameIndex)
	w.U32(a.StateIndex)
	w.U16(a.StateCount)
	w.U16(a.Flags)
	w.U32(a.Duration)
}

type LightState struct {
	Red, Green, Blue uint8
	ActiveTime       uint32
	DataIndex        uint32
	DataCount        uint16
}

func readLightState(r *wire.Reader) LightState {
	return LightState{Red: r.U8(), Green: r.U8(), Blue: r.U8(), ActiveTime: r.U32(), DataIndex: r.U32(), DataCount: r.U16()}
}
func (l LightState) write(w *wire.Writer) {
	w.U8(l.Red)
	w.U8(l.Green)
	w.U8(l.Blue)
	w.U32(l.ActiveTime)
	w.U32(l.DataIndex)
	w.U16(l.DataCount)
}

type StateData struct {
	SurfaceIndex     uint32
	MapIndex         uint32
	LightStateIndex  uint16
}

func readStateData(r *wire.Reader) StateData {
	return StateData{SurfaceIndex: r.U32(), MapIndex: r.U32(), LightStateIndex: r.U16()}
}
func (s StateData) write(w *wire.Writer) {
	w.U32(s.SurfaceIndex)
	w.U32(s.MapIndex)
	w.U16(s.LightStateIndex)
}

type ConvexHull struct {
	HullStart          idx.HullPointIndex
	HullCount          uint16
	MinX, MaxX         float32
	MinY, MaxY         float32
	MinZ, MaxZ         float32
	SurfaceStart       idx.HullSurfaceIndex
	SurfaceCount       uint16
	PlaneStart         idx.HullPlaneIndex
	PolyListPlaneStart idx.PolyListPlaneIndex
	PolyListPointStart idx.PolyListPointIndex
	PolyListStringStart idx.PolyListStringIndex
	StaticMesh         uint8
}

func readConvexHull(r *wire.Reader, interiorVersion uint32) ConvexHull {
	c := ConvexHull{
		HullStart: idx.ReadHullPointIndex(r), HullCount: r.U16(),
		MinX: r.F32(), MaxX: r.F32(), MinY: r.F32(), MaxY: r.F32(), MinZ: r.F32(), MaxZ: r.F32(),
		SurfaceStart: idx.ReadHullSurfaceIndex(r), SurfaceCount: r.U16(),
		PlaneStart:          idx.ReadHullPlaneIndex(r),
		PolyListPlaneStart:  idx.ReadPolyListPlaneIndex(r),
		PolyListPointStart:  idx.ReadPolyListPointIndex(r),
		PolyListStringStart: idx.ReadPolyListStringIndex(r),
	}
	if interiorVersion >= 12 {
		c.StaticMesh = r.U8()
	}
	return c
}
func (c ConvexHull) write(w *wire.Writer, interiorVersion uint32) {
	c.HullStart.Write(w)
	w.U16(c.HullCount)
	w.F32(c.MinX)
	w.F32(c.MaxX)
	w.F32(c.MinY)
	w.F32(c.MaxY)
	w.F32(c.MinZ)
	w.F32(c.MaxZ)
	c.SurfaceStart.Write(w)
	w.U16(c.SurfaceCount)
	c.PlaneStart.Write(w)
	c.PolyListPlaneStart.Write(w)
	c.PolyListPointStart.Write(w)
	c.PolyListStringStart.Write(w)
	if interiorVersion >= 12 {
		w.U8(c.StaticMesh)
	}
}

type CoordBin struct {
	BinStart idx.CoordBinIndex
	BinCount uint32
}

func readCoordBin(r *wire.Reader) CoordBin {
	return CoordBin{BinStart: idx.ReadCoordBinIndex(r), BinCount: r.U32()}
}
func (c CoordBin) write(w *wire.Writer) {
	c.BinStart.Write(w)
	w.U32(c.BinCount)
}

type TexMatrix struct {
	T, N, B int32
}

func readTexMatrix(r *wire.Reader) TexMatrix {
	return TexMatrix{T: r.I32(), N: r.I32(), B: r.I32()}
}
func (t TexMatrix) write(w *wire.Writer) {
	w.I32(t.T)
	w.I32(t.N)
	w.I32(t.B)
}
