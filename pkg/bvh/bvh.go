// Package bvh implements the SAH-partitioned bounding volume hierarchy
// of spec.md §4.1: a flat array of nodes where the left child of an
// internal node always sits at the next slot and only the right index
// is stored, with cluster leaves for splits that the surface-area
// heuristic judges not worth the traversal cost.
package bvh

import (
	"sort"

	"github.com/df07/photontrace/pkg/ray"
	"github.com/df07/photontrace/pkg/shape"
	"github.com/df07/photontrace/pkg/vmath"
)

const (
	numBuckets  = 12
	traverseCost = 1.0
	intersectCost = 8.0
)

// NodeKind tags a flat BVH node.
type NodeKind int

const (
	Internal NodeKind = iota
	Leaf
	ClusterLeaf
)

// Node is one entry of the flat BVH array.
type Node struct {
	Box   shape.BoundingBox
	Kind  NodeKind
	Right int   // index of right child; only set for Internal nodes
	ID    int   // shape id; only set for Leaf nodes
	IDs   []int // shape ids; only set for ClusterLeaf nodes
}

// BVH indexes a set of bounded shapes plus a linear list of unbounded
// shape ids (e.g. Planes) that every query scans directly.
type BVH struct {
	Nodes     []Node
	Shapes    []shape.Shape // id -> shape, shared with the caller
	Unbounded []int
}

type buildItem struct {
	id  int
	box shape.BoundingBox
}

// Build constructs a BVH over shapes (indexed 0..len(shapes)-1 as
// their id). Unbounded shapes (BoundingBox ok=false) are collected
// into the linear Unbounded list instead of the tree.
func Build(shapes []shape.Shape) *BVH {
	b := &BVH{Shapes: shapes}
	var items []buildItem
	for id, s := range shapes {
		box, ok := s.BoundingBox()
		if !ok {
			b.Unbounded = append(b.Unbounded, id)
			continue
		}
		items = append(items, buildItem{id: id, box: box})
	}
	if len(items) > 0 {
		b.build(items)
	}
	return b
}

// build appends the recursive SAH split to b.Nodes and returns the
// index of the node it created.
func (b *BVH) build(items []buildItem) int {
	idx := len(b.Nodes)
	b.Nodes = append(b.Nodes, Node{}) // reserve slot

	box := items[0].box
	for _, it := range items[1:] {
		box = box.Merge(it.box)
	}

	if len(items) == 1 {
		b.Nodes[idx] = Node{Box: box, Kind: Leaf, ID: items[0].id}
		return idx
	}

	axis := box.LongestAxis()
	left, right, cost, ok := sahSplit(items, box, axis)
	if !ok || cost >= float64(len(items))*traverseCost {
		ids := make([]int, len(items))
		for i, it := range items {
			ids[i] = it.id
		}
		b.Nodes[idx] = Node{Box: box, Kind: ClusterLeaf, IDs: ids}
		return idx
	}

	// Left child occupies the very next slot.
	b.build(left)
	rightIdx := b.build(right)
	b.Nodes[idx] = Node{Box: box, Kind: Internal, Right: rightIdx}
	return idx
}

// sahSplit bins items into numBuckets equal-width buckets along axis
// and returns the lowest-cost partition per spec.md §4.1 step 3-4.
func sahSplit(items []buildItem, box shape.BoundingBox, axis int) (left, right []buildItem, cost float64, ok bool) {
	lo := axisValue(box.Min, axis)
	hi := axisValue(box.Max, axis)
	extent := hi - lo
	if extent <= 0 {
		return nil, nil, 0, false
	}

	type bucket struct {
		count int
		box   shape.BoundingBox
		has   bool
	}
	var buckets [numBuckets]bucket
	bucketOf := func(it buildItem) int {
		c := axisValue(it.box.Center(), axis)
		n := int(float64(numBuckets) * (c - lo) / extent)
		if n < 0 {
			n = 0
		}
		if n >= numBuckets {
			n = numBuckets - 1
		}
		return n
	}
	for _, it := range items {
		n := bucketOf(it)
		if !buckets[n].has {
			buckets[n].box = it.box
			buckets[n].has = true
		} else {
			buckets[n].box = buckets[n].box.Merge(it.box)
		}
		buckets[n].count++
	}

	totalArea := box.SurfaceArea()
	bestCost := -1.0
	bestSplit := -1
	bestDiff := -1
	for split := 0; split < numBuckets-1; split++ {
		var nl, nr int
		var lBox, rBox shape.BoundingBox
		haveL, haveR := false, false
		for i := 0; i <= split; i++ {
			if !buckets[i].has {
				continue
			}
			nl += buckets[i].count
			if !haveL {
				lBox = buckets[i].box
				haveL = true
			} else {
				lBox = lBox.Merge(buckets[i].box)
			}
		}
		for i := split + 1; i < numBuckets; i++ {
			if !buckets[i].has {
				continue
			}
			nr += buckets[i].count
			if !haveR {
				rBox = buckets[i].box
				haveR = true
			} else {
				rBox = rBox.Merge(buckets[i].box)
			}
		}
		if nl == 0 || nr == 0 {
			continue
		}
		saL, saR := 0.0, 0.0
		if haveL {
			saL = lBox.SurfaceArea()
		}
		if haveR {
			saR = rBox.SurfaceArea()
		}
		c := traverseCost + intersectCost*(float64(nl)*saL+float64(nr)*saR)/totalArea
		diff := nl - nr
		if diff < 0 {
			diff = -diff
		}
		if bestSplit == -1 || c < bestCost || (c == bestCost && diff < bestDiff) {
			bestCost = c
			bestSplit = split
			bestDiff = diff
		}
	}
	if bestSplit == -1 {
		return nil, nil, 0, false
	}

	for _, it := range items {
		if bucketOf(it) <= bestSplit {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return nil, nil, 0, false
	}
	return left, right, bestCost, true
}

func axisValue(p vmath.Point, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Search returns the nearest intersection along the ray within rng,
// using nearer-first traversal of the bounded tree merged with a
// linear scan of unbounded shapes.
func (b *BVH) Search(r ray.Ray, rng ray.Range) (ray.Intersection, bool) {
	best := rng
	var bestHit ray.Intersection
	found := false

	if len(b.Nodes) > 0 {
		if hit, ok := b.searchNode(0, r, best); ok {
			bestHit = hit
			best.Max = hit.Distance
			found = true
		}
	}

	for _, id := range b.Unbounded {
		if hit, ok := shape.Hit(b.Shapes[id], r, best); ok {
			bestHit = hit
			best.Max = hit.Distance
			found = true
		}
	}

	return bestHit, found
}

func (b *BVH) searchNode(idx int, r ray.Ray, rng ray.Range) (ray.Intersection, bool) {
	node := &b.Nodes[idx]
	if _, ok := node.Box.TryHit(r, rng); !ok {
		return ray.Intersection{}, false
	}

	switch node.Kind {
	case Leaf:
		return shape.Hit(b.Shapes[node.ID], r, rng)
	case ClusterLeaf:
		best := rng
		var bestHit ray.Intersection
		found := false
		for _, id := range node.IDs {
			if hit, ok := shape.Hit(b.Shapes[id], r, best); ok {
				bestHit = hit
				best.Max = hit.Distance
				found = true
			}
		}
		return bestHit, found
	default: // Internal
		leftIdx := idx + 1
		rightIdx := node.Right

		leftEntry, leftOk := b.Nodes[leftIdx].Box.TryHit(r, rng)
		rightEntry, rightOk := b.Nodes[rightIdx].Box.TryHit(r, rng)

		firstIdx, secondIdx := leftIdx, rightIdx
		firstOk, secondOk := leftOk, rightOk
		if rightOk && (!leftOk || rightEntry < leftEntry) {
			firstIdx, secondIdx = rightIdx, leftIdx
			firstOk, secondOk = rightOk, leftOk
		}

		best := rng
		var bestHit ray.Intersection
		found := false
		if firstOk {
			if hit, ok := b.searchNode(firstIdx, r, best); ok {
				bestHit = hit
				best.Max = hit.Distance
				found = true
			}
		}
		if secondOk {
			if hit, ok := b.searchNode(secondIdx, r, best); ok {
				bestHit = hit
				best.Max = hit.Distance
				found = true
			}
		}
		return bestHit, found
	}
}

// SearchID behaves like Search but also reports the index (into
// Shapes) of the winning shape, needed by callers that must map a hit
// back to the owning entity (e.g. the scene's material lookup).
func (b *BVH) SearchID(r ray.Ray, rng ray.Range) (ray.Intersection, int, bool) {
	best := rng
	var bestHit ray.Intersection
	bestID := -1
	found := false

	if len(b.Nodes) > 0 {
		if hit, id, ok := b.searchNodeID(0, r, best); ok {
			bestHit, bestID, found = hit, id, true
			best.Max = hit.Distance
		}
	}

	for _, id := range b.Unbounded {
		if hit, ok := shape.Hit(b.Shapes[id], r, best); ok {
			bestHit, bestID, found = hit, id, true
			best.Max = hit.Distance
		}
	}

	return bestHit, bestID, found
}

func (b *BVH) searchNodeID(idx int, r ray.Ray, rng ray.Range) (ray.Intersection, int, bool) {
	node := &b.Nodes[idx]
	if _, ok := node.Box.TryHit(r, rng); !ok {
		return ray.Intersection{}, -1, false
	}

	switch node.Kind {
	case Leaf:
		hit, ok := shape.Hit(b.Shapes[node.ID], r, rng)
		return hit, node.ID, ok
	case ClusterLeaf:
		best := rng
		var bestHit ray.Intersection
		bestID := -1
		found := false
		for _, id := range node.IDs {
			if hit, ok := shape.Hit(b.Shapes[id], r, best); ok {
				bestHit, bestID, found = hit, id, true
				best.Max = hit.Distance
			}
		}
		return bestHit, bestID, found
	default: // Internal
		leftIdx := idx + 1
		rightIdx := node.Right

		leftEntry, leftOk := b.Nodes[leftIdx].Box.TryHit(r, rng)
		rightEntry, rightOk := b.Nodes[rightIdx].Box.TryHit(r, rng)

		firstIdx, secondIdx := leftIdx, rightIdx
		firstOk, secondOk := leftOk, rightOk
		if rightOk && (!leftOk || rightEntry < leftEntry) {
			firstIdx, secondIdx = rightIdx, leftIdx
			firstOk, secondOk = rightOk, leftOk
		}

		best := rng
		var bestHit ray.Intersection
		bestID := -1
		found := false
		if firstOk {
			if hit, id, ok := b.searchNodeID(firstIdx, r, best); ok {
				bestHit, bestID, found = hit, id, true
				best.Max = hit.Distance
			}
		}
		if secondOk {
			if hit, id, ok := b.searchNodeID(secondIdx, r, best); ok {
				bestHit, bestID, found = hit, id, true
				best.Max = hit.Distance
			}
		}
		return bestHit, bestID, found
	}
}

// SearchAll collects every intersection along the ray within rng,
// pruning only by bounding-box misses (needed by the volume scene's
// interval decomposition, spec.md §4.4).
func (b *BVH) SearchAll(r ray.Ray, rng ray.Range) []ray.Intersection {
	var out []ray.Intersection
	if len(b.Nodes) > 0 {
		b.collectAll(0, r, rng, &out)
	}
	for _, id := range b.Unbounded {
		out = append(out, b.Shapes[id].HitAll(r, rng)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

func (b *BVH) collectAll(idx int, r ray.Ray, rng ray.Range, out *[]ray.Intersection) {
	node := &b.Nodes[idx]
	if _, ok := node.Box.TryHit(r, rng); !ok {
		return
	}
	switch node.Kind {
	case Leaf:
		*out = append(*out, b.Shapes[node.ID].HitAll(r, rng)...)
	case ClusterLeaf:
		for _, id := range node.IDs {
			*out = append(*out, b.Shapes[id].HitAll(r, rng)...)
		}
	default:
		b.collectAll(idx+1, r, rng, out)
		b.collectAll(node.Right, r, rng, out)
	}
}

// idHit pairs a collected intersection with the id of the shape (into
// Shapes) that produced it, so SearchAllID can sort both together.
type idHit struct {
	hit ray.Intersection
	id  int
}

// SearchAllID behaves like SearchAll but also reports, for each hit,
// the id (into Shapes) of the shape that produced it, needed by
// callers that must map every crossing back to its owning entity
// (e.g. the volume scene's boundary lookup) instead of falling back to
// a geometric heuristic.
func (b *BVH) SearchAllID(r ray.Ray, rng ray.Range) ([]ray.Intersection, []int) {
	var out []idHit
	if len(b.Nodes) > 0 {
		b.collectAllID(0, r, rng, &out)
	}
	for _, id := range b.Unbounded {
		for _, h := range b.Shapes[id].HitAll(r, rng) {
			out = append(out, idHit{hit: h, id: id})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].hit.Distance < out[j].hit.Distance })

	hits := make([]ray.Intersection, len(out))
	ids := make([]int, len(out))
	for i, oh := range out {
		hits[i] = oh.hit
		ids[i] = oh.id
	}
	return hits, ids
}

func (b *BVH) collectAllID(idx int, r ray.Ray, rng ray.Range, out *[]idHit) {
	node := &b.Nodes[idx]
	if _, ok := node.Box.TryHit(r, rng); !ok {
		return
	}
	switch node.Kind {
	case Leaf:
		for _, h := range b.Shapes[node.ID].HitAll(r, rng) {
			*out = append(*out, idHit{hit: h, id: node.ID})
		}
	case ClusterLeaf:
		for _, id := range node.IDs {
			for _, h := range b.Shapes[id].HitAll(r, rng) {
				*out = append(*out, idHit{hit: h, id: id})
			}
		}
	default:
		b.collectAllID(idx+1, r, rng, out)
		b.collectAllID(node.Right, r, rng, out)
	}
}
