package photonmap

import (
	"container/heap"

	"github.com/df07/photontrace/pkg/vmath"
)

// RadiusSearch returns every photon within radius of center, via
// iterative DFS with an explicit stack: at each node the near child is
// descended first, and the far child is pruned if the axial distance
// from center to the splitting plane exceeds radius (spec.md §4.6).
func (t *Tree) RadiusSearch(center vmath.Point, radius float64) []Photon {
	var out []Photon
	if t.root == nullIndex {
		return out
	}
	r2 := radius * radius
	stack := []int{t.root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if idx == nullIndex {
			continue
		}
		n := &t.nodes[idx]
		d := center.Sub(n.photon.Position)
		if d.LengthSquared() <= r2 {
			out = append(out, n.photon)
		}

		axisDist := axisOf(center, n.axis) - axisOf(n.photon.Position, n.axis)
		near, far := n.left, n.right
		if axisDist > 0 {
			near, far = n.right, n.left
		}
		// The stack is LIFO: push far first so near is descended first.
		if far != nullIndex && axisDist*axisDist <= r2 {
			stack = append(stack, far)
		}
		if near != nullIndex {
			stack = append(stack, near)
		}
	}
	return out
}

type heapItem struct {
	photon Photon
	distSq float64
}

// maxHeap is a bounded max-heap on distSq, used by KNearest to keep
// only the k closest photons seen so far.
type maxHeap []heapItem

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].distSq > h[j].distSq }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNearest returns up to k nearest photons to center, using the same
// traversal as RadiusSearch but with a shrinking dynamic radius driven
// by the current worst distance in a bounded max-heap (spec.md §4.6).
func (t *Tree) KNearest(center vmath.Point, k int) []Photon {
	if t.root == nullIndex || k <= 0 {
		return nil
	}
	h := &maxHeap{}
	heap.Init(h)

	var walk func(idx int)
	walk = func(idx int) {
		if idx == nullIndex {
			return
		}
		n := &t.nodes[idx]
		d := center.Sub(n.photon.Position).LengthSquared()

		if h.Len() < k {
			heap.Push(h, heapItem{photon: n.photon, distSq: d})
		} else if d < (*h)[0].distSq {
			heap.Pop(h)
			heap.Push(h, heapItem{photon: n.photon, distSq: d})
		}

		axisDist := axisOf(center, n.axis) - axisOf(n.photon.Position, n.axis)
		near, far := n.left, n.right
		if axisDist > 0 {
			near, far = n.right, n.left
		}
		walk(near)
		if h.Len() < k || axisDist*axisDist <= (*h)[0].distSq {
			walk(far)
		}
	}
	walk(t.root)

	out := make([]Photon, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(heapItem).photon
	}
	return out
}
