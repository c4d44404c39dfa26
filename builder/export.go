package builder

import (
	"github.com/vertexsoup/difbuilder/dif"
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
)

// exportPoint implements spec.md 4.3's export_point: epsilon-dedup'd insert
// into interior.Points, defaulting new entries' visibility to fully
// visible (0xFF) per the reference's export_point.
func (b *Builder) exportPoint(p geom.Point3F) idx.PointIndex {
	ord := geom.NewOrdPoint(p, b.cfg.PointEpsilon)
	if v, ok := b.points.lookup(ord, neighborKeysAny(ord)); ok {
		return v
	}
	index := idx.PointIndex(len(b.interior.Points))
	b.interior.Points = append(b.interior.Points, p)
	b.interior.PointVisibility = append(b.interior.PointVisibility, 0xFF)
	b.points.insert(ord, ord.HashKey(), index)
	return index
}

func neighborKeysAny(o geom.OrdPoint) []any {
	keys := o.NeighborKeys()
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

func planeNeighborKeysAny(o geom.OrdPlaneF) []any {
	keys := o.NeighborKeys()
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

// exportNormal dedups a normal vector (export_plane's normal_map) the same
// way exportPoint dedups a vertex.
func (b *Builder) exportNormal(n geom.Point3F) idx.NormalIndex {
	ord := geom.NewOrdPoint(n, b.cfg.PointEpsilon)
	if v, ok := b.normals.lookup(ord, neighborKeysAny(ord)); ok {
		return v
	}
	index := idx.NormalIndex(len(b.interior.Normals))
	b.interior.Normals = append(b.interior.Normals, n)
	b.normals.insert(ord, ord.HashKey(), index)
	return index
}

// exportPlane implements spec.md 4.3's export_plane: returns an existing
// plane's index, the negated plane's index OR-ed with 0x8000 if only the
// inverse was seen before, or allocates a new plane (and its normal).
func (b *Builder) exportPlane(p geom.PlaneF) (idx.PlaneIndex, error) {
	if len(b.interior.Planes) >= 0x10000 {
		return 0, ErrTooManyPlanes
	}
	ord := geom.NewOrdPlaneF(p, b.cfg.PlaneEpsilon)
	if v, ok := b.planes.lookup(ord, planeNeighborKeysAny(ord)); ok {
		return v, nil
	}

	inv := geom.PlaneF{Normal: p.Normal.Scale(-1), Distance: -p.Distance}
	ordInv := geom.NewOrdPlaneF(inv, b.cfg.PlaneEpsilon)
	if v, ok := b.planes.lookup(ordInv, planeNeighborKeysAny(ordInv)); ok {
		return v | 0x8000, nil
	}

	index := idx.PlaneIndex(len(b.interior.Planes))
	normalIndex := b.exportNormal(p.Normal)
	b.interior.Planes = append(b.interior.Planes, dif.Plane{NormalIndex: normalIndex, PlaneDistance: p.Distance})
	b.planes.insert(ord, ord.HashKey(), index)
	return index, nil
}

// exportTexGen implements spec.md 4.3's export_tex_gen.
func (b *Builder) exportTexGen(t triangle) idx.TexGenIndex {
	eq := texGenFromTriangle(t)
	ord := geom.NewOrdTexGen(eq.ToOrd(), b.cfg.TexGenEpsilon)
	if v, ok := b.texGens.lookup(ord, []any{"texgen"}); ok {
		return v
	}
	index := idx.TexGenIndex(len(b.interior.TexGenEqs))
	b.interior.TexGenEqs = append(b.interior.TexGenEqs, eq)
	b.texGens.insert(ord, "texgen", index)
	return index
}

// exportTexture implements spec.md 4.3's export_texture: a linear scan,
// since material counts are expected small.
func (b *Builder) exportTexture(name string) idx.TextureIndex {
	for i, existing := range b.interior.MaterialNames {
		if existing == name {
			return idx.TextureIndex(i)
		}
	}
	index := idx.TextureIndex(len(b.interior.MaterialNames))
	b.interior.MaterialNames = append(b.interior.MaterialNames, name)
	return index
}

// exportEmitString implements spec.md 4.3/4.6's export_emit_string: exact
// byte-sequence dedup into the shared convex-hull emit-string buffer.
func (b *Builder) exportEmitString(bytes []byte) idx.EmitStringIndex {
	key := string(bytes)
	if v, ok := b.emitStrings[key]; ok {
		return v
	}
	index := idx.EmitStringIndex(len(b.interior.ConvexHullEmitStringCharacters))
	b.emitStrings[key] = index
	b.interior.ConvexHullEmitStringCharacters = append(b.interior.ConvexHullEmitStringCharacters, bytes...)
	return index
}

// exportSurface implements spec.md 4.5's export_surface: a single winding
// of 3 indices, a full fan mask, and a 32x32 lightmap stub. Re-exporting
// the same triangle id returns the original surface without creating a
// duplicate (the reference keys this on face id, not geometry).
func (b *Builder) exportSurface(t triangle) (idx.PossiblyNullSurfaceIndex, error) {
	if existing, ok := b.faceToSurface[t.id]; ok {
		return existing, nil
	}
	surfaceIndex := idx.SurfaceIndex(len(b.interior.Surfaces))
	result := idx.NonNullSurface(surfaceIndex)
	b.faceToSurface[t.id] = result

	planeIndex, err := b.exportPlane(t.plane)
	if err != nil {
		return result, err
	}
	flipped := planeIndex&0x8000 != 0
	b.faceToPlane[t.id] = planeIndex

	texGenIndex := b.exportTexGen(t)
	windingStart := idx.WindingIndexIndex(len(b.interior.Indices))
	for _, v := range t.verts {
		b.interior.Indices = append(b.interior.Indices, b.exportPoint(v))
	}

	textureIndex := b.exportTexture(t.material)

	b.interior.Surfaces = append(b.interior.Surfaces, dif.Surface{
		WindingStart:  windingStart,
		WindingCount:  3,
		PlaneIndex:    planeIndex &^ 0x8000,
		PlaneFlipped:  flipped,
		TextureIndex:  textureIndex,
		TexGenIndex:   texGenIndex,
		SurfaceFlags:  dif.SurfaceOutsideVisible,
		FanMask:       0b111,
		MapSizeX:      32,
		MapSizeY:      32,
	})
	b.interior.ZoneSurfaces = append(b.interior.ZoneSurfaces, idx.SurfaceIndex(len(b.interior.Surfaces)-1))
	b.interior.NormalLMapIndices = append(b.interior.NormalLMapIndices, 0)
	b.interior.AlarmLMapIndices = append(b.interior.AlarmLMapIndices, 0xFFFFFFFF)

	return result, nil
}

// exportNullSurface implements spec.md 4.5's export_null_surface: collision
// geometry with no renderable surface, drawn from the same winding/plane
// plumbing as exportSurface.
func (b *Builder) exportNullSurface(t triangle) (idx.PossiblyNullSurfaceIndex, error) {
	if existing, ok := b.faceToSurface[t.id]; ok {
		return existing, nil
	}
	nullIndex := idx.NullSurfaceIndex(len(b.interior.NullSurfaces))
	result := idx.NullSurface(nullIndex)
	b.faceToSurface[t.id] = result

	planeIndex, err := b.exportPlane(t.plane)
	if err != nil {
		return result, err
	}
	b.faceToPlane[t.id] = planeIndex

	windingStart := idx.WindingIndexIndex(len(b.interior.Indices))
	for _, v := range t.verts {
		b.interior.Indices = append(b.interior.Indices, b.exportPoint(v))
	}

	b.interior.NullSurfaces = append(b.interior.NullSurfaces, dif.NullSurface{
		WindingStart: windingStart,
		PlaneIndex:   planeIndex,
		SurfaceFlags: dif.SurfaceOutsideVisible,
		WindingCount: 3,
	})
	return result, nil
}

// texGenFromTriangle derives the pair of planes such that plane.dot(vertex)
// reproduces each vertex's u (or v) coordinate, one plane per axis. Three
// vertices and four unknowns (a,b,c,d) is underdetermined; this picks the
// minimum-norm solution, matching the reference's SVD pseudo-inverse for a
// 3x4 system via its closed form for a full-row-rank matrix: x = A^T(AA^T)^-1 u.
func texGenFromTriangle(t triangle) dif.TexGenEq {
	rows := [3][4]float32{
		{t.verts[0].X, t.verts[0].Y, t.verts[0].Z, 1},
		{t.verts[1].X, t.verts[1].Y, t.verts[1].Z, 1},
		{t.verts[2].X, t.verts[2].Y, t.verts[2].Z, 1},
	}
	xs := solveMinNorm(rows, [3]float32{t.uv[0].X, t.uv[1].X, t.uv[2].X})
	ys := solveMinNorm(rows, [3]float32{t.uv[0].Y, t.uv[1].Y, t.uv[2].Y})
	return dif.TexGenEq{
		PlaneX: geom.PlaneF{Normal: geom.Point3F{X: xs[0], Y: xs[1], Z: xs[2]}, Distance: xs[3]},
		PlaneY: geom.PlaneF{Normal: geom.Point3F{X: ys[0], Y: ys[1], Z: ys[2]}, Distance: ys[3]},
	}
}

// solveMinNorm returns the minimum-norm x solving rows*x = target for the
// underdetermined 3-equation, 4-unknown system: y = (rows rows^T)^-1 target,
// x = rows^T y.
func solveMinNorm(rows [3][4]float32, target [3]float32) [4]float32 {
	var m [3][3]float32
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var dot float32
			for k := 0; k < 4; k++ {
				dot += rows[i][k] * rows[j][k]
			}
			m[i][j] = dot
		}
	}
	y := solve3x3(m, target)
	var x [4]float32
	for k := 0; k < 4; k++ {
		for i := 0; i < 3; i++ {
			x[k] += rows[i][k] * y[i]
		}
	}
	return x
}

// solve3x3 solves m*x = b via Cramer's rule.
func solve3x3(m [3][3]float32, b [3]float32) [3]float32 {
	det3 := func(a [3][3]float32) float32 {
		return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
			a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
			a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	}
	d := det3(m)
	if d == 0 {
		return [3]float32{}
	}
	var x [3]float32
	for col := 0; col < 3; col++ {
		mc := m
		for row := 0; row < 3; row++ {
			mc[row][col] = b[row]
		}
		x[col] = det3(mc) / d
	}
	return x
}
