package vizdebug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vertexsoup/difbuilder/dif"
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/idx"
)

func sampleInterior() *dif.Interior {
	interior := &dif.Interior{
		BoundingBox: geom.BoxF{
			Min: geom.Point3F{X: -4, Y: -4, Z: -4},
			Max: geom.Point3F{X: 4, Y: 4, Z: 4},
		},
		Normals: []geom.Point3F{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}},
		Planes: []dif.Plane{
			{NormalIndex: 0, PlaneDistance: 0},
			{NormalIndex: 1, PlaneDistance: 0},
		},
		ConvexHulls: []dif.ConvexHull{
			{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1, MinZ: -1, MaxZ: 1},
			{MinX: 1, MaxX: 2, MinY: 1, MaxY: 2, MinZ: -1, MaxZ: 1},
		},
		BSPNodes: []dif.BSPNode{
			{PlaneIndex: idx.PlaneIndex(1)},
		},
	}
	return interior
}

func TestNewSceneSVGProducesWellFormedDocument(t *testing.T) {
	svg := NewSceneSVG(sampleInterior(), 400, 400).String()

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, "<svg")
	assert.Equal(t, 2, strings.Count(svg, "hull "), "both hulls should get a label")
}

func TestNewSceneSVGSkipsHorizontalSplitterPlane(t *testing.T) {
	interior := sampleInterior()
	// Plane 0 has a pure-Z normal: no meaningful xy trace, so it must not
	// contribute a line even though it's the only BSP node.
	interior.BSPNodes = []dif.BSPNode{{PlaneIndex: idx.PlaneIndex(0)}}

	svg := NewSceneSVG(interior, 400, 400).String()
	assert.NotContains(t, svg, `stroke="#1a1aff"`)
}

func TestNewSceneSVGDrawsVerticalSplitterPlane(t *testing.T) {
	interior := sampleInterior()
	interior.BSPNodes = []dif.BSPNode{{PlaneIndex: idx.PlaneIndex(1)}}

	svg := NewSceneSVG(interior, 400, 400).String()
	assert.Contains(t, svg, `stroke="#1a1aff"`)
}
