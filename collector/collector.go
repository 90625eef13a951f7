package collector

import (
	"iter"
	"slices"
)

// Collector collects items one at a time and produces a result on demand.
type Collector[T, U any] interface {
	// Collect adds item into the collector.
	Collect(item T)
	// Result returns the current result. It may be called any number of
	// times and does not stop the collector from accepting more items.
	Result() U
}

// CollectWith feeds every item of seq into c in order and returns c.Result().
func CollectWith[T, U any](seq iter.Seq[T], c Collector[T, U]) U {
	for item := range seq {
		c.Collect(item)
	}
	return c.Result()
}

// CollectSlice is CollectWith over the elements of items.
func CollectSlice[T, U any](items []T, c Collector[T, U]) U {
	return CollectWith(slices.Values(items), c)
}

// CollectChan is CollectWith over ch, it returns once ch is closed.
func CollectChan[T, U any](ch <-chan T, c Collector[T, U]) U {
	var seq iter.Seq[T] = func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
	return CollectWith(seq, c)
}
