package topk

import (
	"cmp"

	"golang.org/x/exp/constraints"

	"github.com/go-kratos/collect/collector"
	"github.com/go-kratos/collect/pkg/minheap"
)

var (
	_ collector.Collector[int, []int]     = (*TopK[int])(nil)
	_ collector.Collector[string, []Item] = (*HeavyKeeper)(nil)
)

// TopK keeps the k greatest elements collected so far.
//
// Elements are held in a min-heap so the smallest retained element is the
// eviction candidate. Equal elements are all retained while there is room;
// which of several equal minimums is evicted is unspecified.
//
// TopK is not safe for concurrent use.
type TopK[T any] struct {
	k    int
	heap *minheap.Heap[T]
}

// New returns a TopK of capacity k ordered by compare, which must return a
// negative number when a < b, zero when a == b and a positive number when a > b.
func New[T any](k int, compare func(a, b T) int) *TopK[T] {
	if k < 0 {
		panic("topk: negative k")
	}
	return &TopK[T]{
		k:    k,
		heap: minheap.New(k+1, compare),
	}
}

// NewOrdered returns a TopK of capacity k using the natural order of T.
func NewOrdered[T constraints.Ordered](k int) *TopK[T] {
	return New(k, cmp.Compare[T])
}

// Collect adds item, evicting the smallest element once more than k are held.
func (t *TopK[T]) Collect(item T) {
	t.heap.Push(item)
	if t.heap.Len() > t.k {
		t.heap.Pop()
	}
}

// Result returns a copy of the retained elements in no particular order.
func (t *TopK[T]) Result() []T {
	return t.heap.Items()
}

// Sorted returns a copy of the retained elements, greatest first.
func (t *TopK[T]) Sorted() []T {
	return t.heap.Sorted()
}

// Drain returns the retained elements greatest first and empties t.
func (t *TopK[T]) Drain() []T {
	res := make([]T, t.heap.Len())
	for i := len(res) - 1; i >= 0; i-- {
		res[i] = t.heap.Pop()
	}
	return res
}

// Min returns the smallest retained element.
func (t *TopK[T]) Min() (T, bool) {
	return t.heap.Min()
}

func (t *TopK[T]) Len() int {
	return t.heap.Len()
}

func (t *TopK[T]) K() int {
	return t.k
}

func (t *TopK[T]) Reset() {
	t.heap.Reset()
}
