package bsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/progress"
)

func cubeTriangles() []Triangle {
	// Two triangles per cube face is overkill for this test; one splitter
	// plane per axis pair is enough to exercise classify/split.
	return []Triangle{
		{Vertices: []geom.Point3F{{X: -1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: 1, Y: 1, Z: 0}}},
		{Vertices: []geom.Point3F{{X: -5, Y: -1, Z: 1}, {X: -4, Y: -1, Z: 1}, {X: -4, Y: 1, Z: 1}}},
	}
}

func TestBuildDeterministic(t *testing.T) {
	tris, planes := AssignPlanes(cubeTriangles(), func(t Triangle) geom.PlaneF {
		return geom.PlaneFromTriangle(t.Vertices[0], t.Vertices[1], t.Vertices[2])
	})
	require.Len(t, planes, 2)

	root1, bal1 := Build(tris, planes, Config{Method: SplitFast, Epsilon: 1e-4}, progress.NoopSink{})
	root2, bal2 := Build(tris, planes, Config{Method: SplitFast, Epsilon: 1e-4}, progress.NoopSink{})
	assert.Equal(t, bal1, bal2)
	assert.NotNil(t, root1)
	assert.NotNil(t, root2)
}

func TestSplitNoneProducesDummySplit(t *testing.T) {
	tris, planes := AssignPlanes(cubeTriangles(), func(t Triangle) geom.PlaneF {
		return geom.PlaneFromTriangle(t.Vertices[0], t.Vertices[1], t.Vertices[2])
	})
	root, _ := Build(tris, planes, Config{Method: SplitNone, Epsilon: 1e-4}, progress.NoopSink{})
	require.NotNil(t, root.PlaneIndex)
	assert.Equal(t, 0, *root.PlaneIndex)
	assert.NotNil(t, root.Front)
	assert.NotNil(t, root.Back)
}

func TestClipKeepsVerticesBehindPlane(t *testing.T) {
	tri := Triangle{
		Vertices: []geom.Point3F{{X: -1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Indices:  []int{0, 1, 2},
	}
	planes := []geom.PlaneF{{Normal: geom.Point3F{X: 1}, Distance: 0}}
	back := tri.clip(0, planes, 1e-4, false)
	for _, i := range back.Indices {
		v := back.Vertices[i]
		d := planes[0].Normal.Dot(v) + planes[0].Distance
		assert.LessOrEqual(t, d, float32(1e-3))
	}
}

func TestCalcPlaneRatingZeroWhenNoSeparation(t *testing.T) {
	tris, planes := AssignPlanes(cubeTriangles(), func(t Triangle) geom.PlaneF {
		return geom.PlaneFromTriangle(t.Vertices[0], t.Vertices[1], t.Vertices[2])
	})
	score := calcPlaneRating(tris[0].PlaneID, tris, planes, 1e-4)
	assert.GreaterOrEqual(t, score, 0)
}

func TestScoreCandidatesMatchesSequentialScoring(t *testing.T) {
	tris, planes := AssignPlanes(cubeTriangles(), func(t Triangle) geom.PlaneF {
		return geom.PlaneFromTriangle(t.Vertices[0], t.Vertices[1], t.Vertices[2])
	})
	candidates := []int{0, 1}

	got := scoreCandidates(candidates, tris, planes, 1e-4)
	for i, c := range candidates {
		want := calcPlaneRating(c, tris, planes, 1e-4)
		assert.Equal(t, want, got[i], "worker-pool score for candidate %d must match the sequential calculation", c)
	}
}

func TestPickMaxScoreDeterministicAcrossRuns(t *testing.T) {
	tris, planes := AssignPlanes(cubeTriangles(), func(t Triangle) geom.PlaneF {
		return geom.PlaneFromTriangle(t.Vertices[0], t.Vertices[1], t.Vertices[2])
	})
	candidates := []int{0, 1}

	first, _ := pickMaxScore(candidates, tris, planes, 1e-4)
	for i := 0; i < 20; i++ {
		got, _ := pickMaxScore(candidates, tris, planes, 1e-4)
		assert.Equal(t, first, got, "concurrent scoring must not introduce run-to-run nondeterminism")
	}
}
