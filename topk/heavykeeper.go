package topk

// See HeavyKeeper: An Accurate Algorithm for Finding Top-k Elephant Flow
// (https://www.usenix.org/system/files/conference/atc18/atc18-gong.pdf).

import (
	"cmp"
	"math"
	"math/rand"

	"github.com/twmb/murmur3"

	"github.com/go-kratos/collect/pkg/minheap"
)

const lookupTableSize = 256

// Item is a key with its estimated count.
type Item struct {
	Key   string
	Count uint32
}

// Option is HeavyKeeper option function.
type Option func(*options)

type options struct {
	width    uint32
	depth    uint32
	decay    float64
	minCount uint32
	seed     int64
}

// WithWidth sets the number of buckets per sketch row.
func WithWidth(width uint32) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithDepth sets the number of sketch rows.
func WithDepth(depth uint32) Option {
	return func(o *options) {
		o.depth = depth
	}
}

// WithDecay sets the probability base used to decay colliding buckets.
func WithDecay(decay float64) Option {
	return func(o *options) {
		o.decay = decay
	}
}

// WithMinCount sets the estimated count a key needs before it can enter the topk.
func WithMinCount(count uint32) Option {
	return func(o *options) {
		o.minCount = count
	}
}

// WithSeed sets the seed of the decay random source.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// HeavyKeeper collects the k most frequent keys of a stream approximately,
// using a count sketch with exponential decay. It is not safe for concurrent use.
type HeavyKeeper struct {
	k           uint32
	width       uint32
	minCount    uint32
	lookupTable []float64

	r       *rand.Rand
	buckets [][]bucket
	heap    *minheap.Heap[Item]
	total   uint64
}

// NewHeavyKeeper returns a HeavyKeeper tracking the k most frequent keys.
func NewHeavyKeeper(k uint32, opts ...Option) *HeavyKeeper {
	factor := uint32(1)
	if k > 1 {
		factor = max(factor, uint32(math.Log(float64(k))))
	}
	o := options{
		width: 1024 * factor,
		depth: 4,
		decay: 0.925,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width == 0 || o.depth == 0 {
		panic("topk: heavykeeper width and depth must be positive")
	}

	rows := make([][]bucket, o.depth)
	for i := range rows {
		rows[i] = make([]bucket, o.width)
	}
	hk := &HeavyKeeper{
		k:           k,
		width:       o.width,
		minCount:    o.minCount,
		lookupTable: make([]float64, lookupTableSize),
		r:           rand.New(rand.NewSource(o.seed)),
		buckets:     rows,
		heap:        minheap.New(int(k)+1, compareItem),
	}
	for i := range hk.lookupTable {
		hk.lookupTable[i] = math.Pow(o.decay, float64(i))
	}
	return hk
}

// compareItem orders by count, ties broken so that the greater key is smaller.
func compareItem(a, b Item) int {
	if c := cmp.Compare(a.Count, b.Count); c != 0 {
		return c
	}
	return cmp.Compare(b.Key, a.Key)
}

// Collect adds one occurrence of key.
func (hk *HeavyKeeper) Collect(key string) {
	hk.Add(key, 1)
}

// Result returns the topk items, most frequent first.
func (hk *HeavyKeeper) Result() []Item {
	return hk.List()
}

// List returns the topk items, most frequent first.
func (hk *HeavyKeeper) List() []Item {
	return hk.heap.Sorted()
}

// Add adds incr occurrences of key and reports whether key is in the topk
// afterwards. If adding key pushed another key out, that key is returned.
func (hk *HeavyKeeper) Add(key string, incr uint32) (string, bool) {
	count := hk.estimate([]byte(key), incr)
	hk.total += uint64(incr)

	if hk.k == 0 || count < hk.minCount {
		return "", false
	}
	if idx, ok := hk.heap.Find(func(it Item) bool { return it.Key == key }); ok {
		hk.heap.Fix(idx, Item{Key: key, Count: count})
		return "", true
	}
	if least, ok := hk.heap.Min(); ok && hk.full() && count < least.Count {
		return "", false
	}
	hk.heap.Push(Item{Key: key, Count: count})
	if uint32(hk.heap.Len()) <= hk.k {
		return "", true
	}
	expelled := hk.heap.Pop()
	if expelled.Key == key {
		return "", false
	}
	return expelled.Key, true
}

// estimate records incr occurrences of key in every sketch row and returns
// the largest count held for key.
func (hk *HeavyKeeper) estimate(key []byte, incr uint32) uint32 {
	fingerprint := murmur3.Sum32(key)
	var maxCount uint32

	for i, row := range hk.buckets {
		b := &row[murmur3.SeedSum32(uint32(i), key)%hk.width]
		switch {
		case b.count == 0:
			b.fingerprint = fingerprint
			b.count = incr
			maxCount = max(maxCount, b.count)
		case b.fingerprint == fingerprint:
			b.count += incr
			maxCount = max(maxCount, b.count)
		default:
			for remain := incr; remain > 0; remain-- {
				if hk.r.Float64() >= hk.decayOf(b.count) {
					continue
				}
				b.count--
				if b.count == 0 {
					b.fingerprint = fingerprint
					b.count = remain
					maxCount = max(maxCount, remain)
					break
				}
			}
		}
	}
	return maxCount
}

func (hk *HeavyKeeper) decayOf(count uint32) float64 {
	if count < lookupTableSize {
		return hk.lookupTable[count]
	}
	return hk.lookupTable[lookupTableSize-1]
}

func (hk *HeavyKeeper) full() bool {
	return uint32(hk.heap.Len()) >= hk.k
}

// Query reports whether key is in the topk.
func (hk *HeavyKeeper) Query(key string) bool {
	_, ok := hk.heap.Find(func(it Item) bool { return it.Key == key })
	return ok
}

// Count returns the estimated count of key if it is in the topk.
func (hk *HeavyKeeper) Count(key string) (uint32, bool) {
	if idx, ok := hk.heap.Find(func(it Item) bool { return it.Key == key }); ok {
		return hk.heap.At(idx).Count, true
	}
	return 0, false
}

// Fading halves every counter, so that old traffic weighs less than new.
func (hk *HeavyKeeper) Fading() {
	for _, row := range hk.buckets {
		for i := range row {
			row[i].count >>= 1
		}
	}
	hk.heap.Update(func(it *Item) {
		it.Count >>= 1
	})
	hk.total >>= 1
}

// Total returns the number of occurrences added, halved by every Fading.
func (hk *HeavyKeeper) Total() uint64 {
	return hk.total
}

type bucket struct {
	fingerprint uint32
	count       uint32
}
