package vizdebug

import (
	"fmt"
	"math"

	"github.com/vertexsoup/difbuilder/dif"
)

// hullPalette colors successive hulls so adjacent groups are visually
// distinguishable in the rendered scene.
var hullPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
}

// projector maps a built interior's xy extent onto a w x h pixel canvas,
// flipping y (SVG grows downward, the interior's y grows "north").
type projector struct {
	minX, minY float32
	scaleX     float64
	scaleY     float64
	h          float64
}

func newProjector(interior *dif.Interior, w, h int) projector {
	bb := interior.BoundingBox
	extent := bb.Extent()
	sx, sy := float64(w), float64(h)
	if extent.X > 0 {
		sx = float64(w) / float64(extent.X)
	}
	if extent.Y > 0 {
		sy = float64(h) / float64(extent.Y)
	}
	return projector{minX: bb.Min.X, minY: bb.Min.Y, scaleX: sx, scaleY: sy, h: float64(h)}
}

func (p projector) point(x, y float32) (float64, float64) {
	px := float64(x-p.minX) * p.scaleX
	py := p.h - float64(y-p.minY)*p.scaleY
	return px, py
}

// NewSceneSVG implements spec.md 4.14: draws the inflated scene bounding box
// and its 16x16 coord-bin grid, every convex hull's xy bounding box (colored
// by hull index mod the palette), and the xy trace of every BSP internal
// node's splitter plane, clipped to the scene bbox.
func NewSceneSVG(interior *dif.Interior, width, height int) *SVGBuilder {
	b := NewSVGBuilder(width, height)
	proj := newProjector(interior, width, height)

	drawCoordBinGrid(b, interior, proj)
	drawHullBoxes(b, interior, proj)
	drawBSPPlaneTraces(b, interior, proj)

	return b
}

func drawCoordBinGrid(b *SVGBuilder, interior *dif.Interior, proj projector) {
	box := interior.BoundingBox
	extent := box.Extent()
	x0, y0 := proj.point(box.Min.X, box.Min.Y)
	x1, y1 := proj.point(box.Max.X, box.Max.Y)
	b.RectOutline(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0), "#888888", 1.5)

	for i := 1; i < 16; i++ {
		x := box.Min.X + float32(i)*extent.X/16
		px, top := proj.point(x, box.Max.Y)
		_, bottom := proj.point(x, box.Min.Y)
		b.Line(px, top, px, bottom, "#cccccc", 0.5)
	}
	for j := 1; j < 16; j++ {
		y := box.Min.Y + float32(j)*extent.Y/16
		left, ly := proj.point(box.Min.X, y)
		right, _ := proj.point(box.Max.X, y)
		b.Line(left, ly, right, ly, "#cccccc", 0.5)
	}
}

func drawHullBoxes(b *SVGBuilder, interior *dif.Interior, proj projector) {
	for i, hull := range interior.ConvexHulls {
		color := hullPalette[i%len(hullPalette)]
		x0, y0 := proj.point(hull.MinX, hull.MinY)
		x1, y1 := proj.point(hull.MaxX, hull.MaxY)
		b.RectOutline(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0), color, 2)
		b.Text(math.Min(x0, x1)+2, math.Min(y0, y1)+12, hullLabel(i), color, 10)
	}
}

// drawBSPPlaneTraces draws, for every internal BSP node, the line where its
// splitter plane crosses the scene's mid-height, clipped to the scene's xy
// extent. A near-horizontal plane (one whose normal is nearly pure Z) has no
// meaningful xy trace and is skipped.
func drawBSPPlaneTraces(b *SVGBuilder, interior *dif.Interior, proj projector) {
	box := interior.BoundingBox
	zMid := (box.Min.Z + box.Max.Z) / 2

	for _, node := range interior.BSPNodes {
		plane := interior.Planes[node.PlaneIndex]
		normal := interior.Normals[plane.NormalIndex]
		d := plane.PlaneDistance

		const eps = 1e-5
		var wx0, wy0, wx1, wy1 float32
		switch {
		case math.Abs(float64(normal.Y)) > eps:
			wx0, wx1 = box.Min.X, box.Max.X
			wy0 = -(normal.X*wx0 + normal.Z*zMid + d) / normal.Y
			wy1 = -(normal.X*wx1 + normal.Z*zMid + d) / normal.Y
		case math.Abs(float64(normal.X)) > eps:
			wy0, wy1 = box.Min.Y, box.Max.Y
			wx0 = -(normal.Y*wy0 + normal.Z*zMid + d) / normal.X
			wx1 = -(normal.Y*wy1 + normal.Z*zMid + d) / normal.X
		default:
			continue
		}

		x0, y0 := proj.point(wx0, wy0)
		x1, y1 := proj.point(wx1, wy1)
		b.Line(x0, y0, x1, y1, "#1a1aff", 1)
	}
}

func hullLabel(i int) string {
	return fmt.Sprintf("hull %d", i)
}
