package minheap

import (
	"container/heap"
	"slices"
)

// Heap is a binary min-heap ordered by a three-way compare function.
// The smallest element is always at index 0.
type Heap[T any] struct {
	nodes nodes[T]
}

// New returns an empty heap with room for capacity elements.
func New[T any](capacity int, compare func(a, b T) int) *Heap[T] {
	return &Heap[T]{nodes: nodes[T]{
		items:   make([]T, 0, capacity),
		compare: compare,
	}}
}

func (h *Heap[T]) Len() int {
	return len(h.nodes.items)
}

func (h *Heap[T]) Push(val T) {
	heap.Push(&h.nodes, val)
}

// Pop removes and returns the smallest element.
func (h *Heap[T]) Pop() T {
	if h.Len() == 0 {
		panic("minheap: pop from empty heap")
	}
	return heap.Pop(&h.nodes).(T)
}

// Min returns the smallest element without removing it.
func (h *Heap[T]) Min() (T, bool) {
	if h.Len() == 0 {
		var zero T
		return zero, false
	}
	return h.nodes.items[0], true
}

// At returns the element stored at index i in heap order.
func (h *Heap[T]) At(i int) T {
	return h.nodes.items[i]
}

func (h *Heap[T]) Find(match func(T) bool) (int, bool) {
	for i := range h.nodes.items {
		if match(h.nodes.items[i]) {
			return i, true
		}
	}
	return 0, false
}

// Fix replaces the element at index i and restores the heap order.
func (h *Heap[T]) Fix(i int, val T) {
	h.nodes.items[i] = val
	heap.Fix(&h.nodes, i)
}

// Update applies fn to every element and re-heapifies.
func (h *Heap[T]) Update(fn func(*T)) {
	for i := range h.nodes.items {
		fn(&h.nodes.items[i])
	}
	heap.Init(&h.nodes)
}

// Items returns a copy of the elements in heap order.
func (h *Heap[T]) Items() []T {
	return append(make([]T, 0, h.Len()), h.nodes.items...)
}

// Sorted returns a copy of the elements, greatest first.
func (h *Heap[T]) Sorted() []T {
	items := h.Items()
	slices.SortFunc(items, func(a, b T) int {
		return h.nodes.compare(b, a)
	})
	return items
}

func (h *Heap[T]) Reset() {
	clear(h.nodes.items)
	h.nodes.items = h.nodes.items[:0]
}

type nodes[T any] struct {
	items   []T
	compare func(a, b T) int
}

func (n *nodes[T]) Len() int {
	return len(n.items)
}

func (n *nodes[T]) Less(i, j int) bool {
	return n.compare(n.items[i], n.items[j]) < 0
}

func (n *nodes[T]) Swap(i, j int) {
	n.items[i], n.items[j] = n.items[j], n.items[i]
}

func (n *nodes[T]) Push(val any) {
	n.items = append(n.items, val.(T))
}

func (n *nodes[T]) Pop() any {
	var zero T
	last := len(n.items) - 1
	val := n.items[last]
	n.items[last] = zero
	n.items = n.items[:last]
	return val
}
