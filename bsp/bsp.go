// Package bsp builds a binary space partition tree over a flat triangle
// soup: the tree that becomes an interior's bsp_nodes/bsp_solid_leaves once
// builder exports it.
//
// Grounded on original_source/libdifbuilder/src/bsp.rs: DIFBSPNode's
// classify-then-split recursion (split_new_impl there), splitter scoring
// (calc_plane_rating), and the two candidate-selection strategies
// (select_best_splitter for Fast, select_best_splitter_new for Exhaustive).
// The reference also carries an older clip-plane-based split path (plain
// split/split_brush_list) that build_bsp never calls except for
// SplitMethod::None's two-empty-children stub; this package implements only
// the classify-then-split path, matching that.
package bsp

import (
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/progress"
)

// SplitMethod selects how a node picks its splitter plane.
type SplitMethod int

const (
	SplitFast SplitMethod = iota
	SplitExhaustive
	SplitNone
)

// Config tunes the tree builder.
type Config struct {
	Method  SplitMethod
	Epsilon float32
}

// DefaultConfig matches the reference's BSP_CONFIG default.
func DefaultConfig() Config {
	return Config{Method: SplitFast, Epsilon: 1e-4}
}

// Triangle is one brush fed into the tree, carrying its own dedup'd plane id
// (assigned by Build, independent of any interior's plane table).
type Triangle struct {
	Vertices     []geom.Point3F
	Indices      []int
	PlaneID      int
	ID           int
	UsedPlane    bool
	InvertedPlane bool
}

func (t Triangle) classify(p geom.PlaneF, epsilon float32) int {
	front, back, on := 0, 0, 0
	for _, i := range t.Indices {
		d := p.Normal.Dot(t.Vertices[i]) + p.Distance
		switch {
		case d > epsilon:
			front++
		case d < -epsilon:
			back++
		default:
			on++
		}
	}
	switch {
	case front > 0 && back == 0:
		return 1
	case front == 0 && back > 0:
		return -1
	case front == 0 && back == 0 && on > 0:
		return 0
	default:
		return 2
	}
}

// split clips t against plane index p, returning the front and back halves.
// Pieces with 2 or fewer vertices are reported via the ok flags.
func (t Triangle) split(planeID int, planes []geom.PlaneF, epsilon float32) (front, back Triangle, frontOK, backOK bool) {
	front = t.clip(planeID, planes, epsilon, true)
	back = t.clip(planeID, planes, epsilon, false)
	if t.PlaneID == planeID {
		front.UsedPlane = true
		back.UsedPlane = true
	}
	return front, back, len(front.Indices) > 2, len(back.Indices) > 2
}

// clip implements 4.9.1: walk edges, keep vertices at or behind the plane,
// emit an intersection vertex wherever an edge crosses it. flipFace negates
// the plane to produce the front half.
func (t Triangle) clip(planeID int, planes []geom.PlaneF, epsilon float32, flipFace bool) Triangle {
	plane := planes[planeID]
	if flipFace {
		plane = geom.PlaneF{Normal: plane.Normal.Scale(-1), Distance: -plane.Distance}
	}

	newVertices := append([]geom.Point3F(nil), t.Vertices...)
	var newIndices []int

	n := len(t.Indices)
	for i := 0; i < n; i++ {
		v1 := t.Vertices[t.Indices[i]]
		v2 := t.Vertices[t.Indices[(i+1)%n]]
		d1 := plane.Normal.Dot(v1) + plane.Distance
		d2 := plane.Normal.Dot(v2) + plane.Distance

		if d1 <= epsilon {
			newIndices = append(newIndices, t.Indices[i])
		}
		if (d1 > epsilon && d2 < -epsilon) || (d1 < -epsilon && d2 > epsilon) {
			denom := plane.Normal.Dot(v2.Sub(v1))
			tt := (-plane.Distance - plane.Normal.Dot(v1)) / denom
			v3 := v1.Add(v2.Sub(v1).Scale(tt))
			newIndices = append(newIndices, len(newVertices))
			newVertices = append(newVertices, v3)
		}
	}

	out := t
	out.Vertices = newVertices
	out.Indices = newIndices
	return out
}

// Node is one BSP tree node. A node with PlaneIndex == nil is a leaf.
type Node struct {
	BrushList  []Triangle
	Front      *Node
	Back       *Node
	PlaneIndex *int
	Solid      bool
}

func fromBrushes(brushes []Triangle) *Node {
	return &Node{BrushList: brushes}
}

func (n *Node) height() int {
	v := 0
	if n.Front != nil {
		if h := n.Front.height(); h > v {
			v = h
		}
	}
	if n.Back != nil {
		if h := n.Back.height(); h > v {
			v = h
		}
	}
	return v + 1
}

// BalanceFactor is height(front) - height(back), 0 for a missing subtree.
func (n *Node) BalanceFactor() int {
	v := 0
	if n.Front != nil {
		v += n.Front.height()
	}
	if n.Back != nil {
		v -= n.Back.height()
	}
	return v
}

// Build recursively splits the root node (all triangles, which must already
// carry PlaneID from AssignPlanes) until every remaining brush
// already lies on a consumed plane. Returns the root and its balance factor.
func Build(triangles []Triangle, planes []geom.PlaneF, cfg Config, sink progress.Sink) (*Node, int) {
	if sink == nil {
		sink = progress.NoopSink{}
	}

	brushes := append([]Triangle(nil), triangles...)
	root := fromBrushes(brushes)

	if cfg.Method == SplitNone {
		root.Front = &Node{}
		root.Back = &Node{}
		zero := 0
		root.PlaneIndex = &zero
		return root, root.BalanceFactor()
	}

	used := make(map[int]bool)
	root.split(planes, cfg, used, 0, sink)
	return root, root.BalanceFactor()
}

// AssignPlanes deduplicates each triangle's plane (by value, via
// geom.OrdPlaneF) into a fresh plane table and stamps the resulting id onto
// every triangle. Call this before Build.
func AssignPlanes(triangles []Triangle, planeOf func(Triangle) geom.PlaneF) ([]Triangle, []geom.PlaneF) {
	planeMap := make(map[geom.OrdPlaneF]int)
	var planes []geom.PlaneF
	out := make([]Triangle, len(triangles))
	for i, t := range triangles {
		p := planeOf(t)
		ord := geom.NewOrdPlaneF(p, geom.DefaultPlaneEpsilon)
		id, ok := planeMap[ord]
		if !ok {
			id = len(planes)
			planes = append(planes, p)
			planeMap[ord] = id
		}
		t.PlaneID = id
		t.ID = i
		if len(t.Indices) == 0 {
			t.Indices = []int{0, 1, 2}
		}
		out[i] = t
	}
	return out, planes
}

func (n *Node) split(planes []geom.PlaneF, cfg Config, used map[int]bool, depth int, sink progress.Sink) {
	unusedPlanes := false
	for _, b := range n.BrushList {
		if !b.UsedPlane {
			unusedPlanes = true
			break
		}
	}
	if !unusedPlanes || n.PlaneIndex != nil {
		return
	}

	var splitPlane int
	var found bool
	switch cfg.Method {
	case SplitFast:
		splitPlane, found = selectBestSplitterFast(n.BrushList, planes, cfg.Epsilon)
	case SplitExhaustive:
		splitPlane, found = selectBestSplitterExhaustive(n.BrushList, planes, cfg.Epsilon)
	default:
		return
	}
	if !found {
		return
	}
	n.PlaneIndex = &splitPlane

	var frontBrushes, backBrushes []Triangle
	for _, b := range n.BrushList {
		switch {
		case b.PlaneID == splitPlane:
			b.UsedPlane = true
			backBrushes = append(backBrushes, b)
		default:
			switch b.classify(planes[splitPlane], cfg.Epsilon) {
			case 1:
				frontBrushes = append(frontBrushes, b)
			case -1:
				backBrushes = append(backBrushes, b)
			case 0:
				b.UsedPlane = true
				backBrushes = append(backBrushes, b)
			case 2:
				front, back, frontOK, backOK := b.split(splitPlane, planes, cfg.Epsilon)
				if frontOK {
					frontBrushes = append(frontBrushes, front)
				}
				if backOK {
					backBrushes = append(backBrushes, back)
				}
			}
		}
	}

	if !used[splitPlane] {
		used[splitPlane] = true
		sink.Report(uint32(len(used)), uint32(len(planes)), "Building BSP", "Built BSP")
	}

	if len(frontBrushes) > 0 {
		n.Front = fromBrushes(frontBrushes)
		for i := range n.Front.BrushList {
			if n.Front.BrushList[i].PlaneID == splitPlane {
				n.Front.BrushList[i].UsedPlane = true
			}
		}
		n.Front.split(planes, cfg, used, depth+1, sink)
	}
	if len(backBrushes) > 0 {
		n.Back = fromBrushes(backBrushes)
		for i := range n.Back.BrushList {
			if n.Back.BrushList[i].PlaneID == splitPlane {
				n.Back.BrushList[i].UsedPlane = true
			}
		}
		n.Back.split(planes, cfg, used, depth+1, sink)
	}
}

// selectBestSplitterFast mirrors select_best_splitter: a deterministic
// seed=42 RNG picks up to 32 distinct candidate plane ids, scored by
// calcPlaneRating, max wins. Ties break toward the lower plane index.
func selectBestSplitterFast(brushes []Triangle, planes []geom.PlaneF, epsilon float32) (int, bool) {
	seen := make(map[int]bool)
	var candidates []int
	for _, b := range brushes {
		if !b.UsedPlane && !seen[b.PlaneID] {
			seen[b.PlaneID] = true
			candidates = append(candidates, b.PlaneID)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Ints(candidates)

	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if len(candidates) > 32 {
		candidates = candidates[:32]
	}

	return pickMaxScore(candidates, brushes, planes, epsilon)
}

// selectBestSplitterExhaustive mirrors select_best_splitter_new: quantise
// every unused plane normal to one of 64 hemisphere buckets, sort each
// bucket by distance, take the median as that bucket's candidate, score all
// candidates, max wins.
func selectBestSplitterExhaustive(brushes []Triangle, planes []geom.PlaneF, epsilon float32) (int, bool) {
	type bucket struct {
		dir   geom.Point3F
		ids   []int
	}
	buckets := make([]bucket, 0, 64)
	for i := 0; i < 8; i++ {
		phi := -math.Pi + math.Pi*float64(i)/8.0
		for j := 0; j < 8; j++ {
			theta := (math.Pi / 2.0) * float64(j) / 8.0
			dir := geom.Point3F{
				X: float32(math.Cos(theta) * math.Sin(phi)),
				Y: float32(math.Sin(theta) * math.Sin(phi)),
				Z: float32(math.Cos(phi)),
			}
			buckets = append(buckets, bucket{dir: dir})
		}
	}

	seen := make(map[int]bool)
	for _, b := range brushes {
		if b.UsedPlane || seen[b.PlaneID] {
			continue
		}
		seen[b.PlaneID] = true
		normal := planes[b.PlaneID].Normal
		maxDot := float32(-1)
		maxIdx := -1
		for bi, bk := range buckets {
			d := bk.dir.Dot(normal)
			if d > maxDot {
				maxDot = d
				maxIdx = bi
			}
		}
		if maxIdx >= 0 {
			buckets[maxIdx].ids = append(buckets[maxIdx].ids, b.PlaneID)
		}
	}

	var candidates []int
	for _, bk := range buckets {
		if len(bk.ids) == 0 {
			continue
		}
		ids := append([]int(nil), bk.ids...)
		sort.Slice(ids, func(i, j int) bool { return planes[ids[i]].Distance < planes[ids[j]].Distance })
		candidates = append(candidates, ids[len(ids)/2])
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return pickMaxScore(candidates, brushes, planes, epsilon)
}

func pickMaxScore(candidates []int, brushes []Triangle, planes []geom.PlaneF, epsilon float32) (int, bool) {
	scores := scoreCandidates(candidates, brushes, planes, epsilon)

	bestScore := math.MinInt64
	best := candidates[0]
	for i, c := range candidates {
		score := scores[i]
		if score > bestScore || (score == bestScore && c < best) {
			bestScore = score
			best = c
		}
	}
	return best, true
}

// scoreCandidates runs calcPlaneRating over every candidate plane on a
// bounded worker pool, one result slot per candidate so no synchronization
// is needed beyond the WaitGroup. Generalized from password.go's
// generateCombinations/GuessRacePassword channel-producer shape: instead of
// a single producer goroutine feeding one consumer, work items are pulled by
// up to runtime.NumCPU() workers off a shared jobs channel. Each worker's
// calcPlaneRating call keeps its own local "already counted" plane set
// (considered, in calcPlaneRating), so nothing about a candidate's scoring
// is ever shared live between workers.
func scoreCandidates(candidates []int, brushes []Triangle, planes []geom.PlaneF, epsilon float32) []int {
	scores := make([]int, len(candidates))

	workers := runtime.NumCPU()
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scores[i] = calcPlaneRating(candidates[i], brushes, planes, epsilon)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return scores
}

// calcPlaneRating implements the splitter scoring formula from 4.9's
// "Splitter scoring" section: entropy x jaccard over (front, back, splits)
// tallies, with coplanar counted once per plane across brushes.
func calcPlaneRating(planeID int, brushes []Triangle, planes []geom.PlaneF, epsilon float32) int {
	plane := planes[planeID]
	considered := make(map[int]bool)

	var front, back, splits int
	for _, b := range brushes {
		switch {
		case b.PlaneID == planeID:
			if !considered[planeID] {
				considered[planeID] = true
				if b.InvertedPlane {
					back++
				} else {
					front++
				}
			}
		default:
			maxFront, minBack := float32(0), float32(0)
			for _, i := range b.Indices {
				d := plane.Normal.Dot(b.Vertices[i]) + plane.Distance
				if d > maxFront {
					maxFront = d
				}
				if d < minBack {
					minBack = d
				}
			}
			isFront := maxFront > epsilon
			isBack := minBack < -epsilon
			if isFront {
				front++
			}
			if isBack {
				back++
			}
			if isFront && isBack {
				splits++
			}
		}
	}

	frontAndBack := front + back
	if frontAndBack == 0 {
		return 0
	}
	frontOnly := front - splits
	backOnly := back - splits
	realFrontAndBack := frontOnly + backOnly
	jaccard := float64(realFrontAndBack) / float64(frontAndBack)

	pf := float64(front) / float64(frontAndBack)
	pb := float64(back) / float64(frontAndBack)
	entropy := 0.0
	if pf > 0 {
		entropy += pf * math.Log2(pf)
	}
	if pb > 0 {
		entropy += pb * math.Log2(pb)
	}

	return int(math.Round(-entropy * jaccard * 1000))
}
