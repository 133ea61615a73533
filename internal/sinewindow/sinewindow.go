// Package sinewindow provides the standard sine MDCT window, memoized per
// log2 length, following the same precomputed-table idiom go-aac uses for
// its (fixed-size) AAC windows, generalized to arbitrary power-of-two sizes.
package sinewindow

import (
	"math"
	"sync"
)

var (
	mu    sync.Mutex
	cache = map[int][]float32{}
)

// Get returns the sine window of length 2^logLen, i.e.
//
//	w[i] = sin( (pi/N) * (i + 0.5) ), N = 2^logLen
//
// The returned slice must not be mutated by the caller; it is shared and
// memoized across calls with the same logLen.
func Get(logLen int) []float32 {
	mu.Lock()
	defer mu.Unlock()

	if w, ok := cache[logLen]; ok {
		return w
	}

	n := 1 << uint(logLen)
	w := make([]float32, n)
	step := math.Pi / float64(n)
	for i := 0; i < n; i++ {
		w[i] = float32(math.Sin(step * (float64(i) + 0.5)))
	}

	cache[logLen] = w
	return w
}
