// Package pool implements the engine's process-wide, size-classed
// buffer allocator (§4.A). The fixed-width, bool and varchar-payload
// columns acquire their backing storage here, so that repeated
// append/grow cycles across many short-lived columns reuse the same
// underlying arrays.
package pool

import "sync"

// Pool is a size-classed free-list for buffers of element type T. Size
// classes are powers of two; acquire() rounds a requested capacity up
// to the next class, release() files a buffer back under the largest
// class its capacity covers. Buffer contents are UNDEFINED after acquire — the
// caller must not assume zeroed memory.
type Pool[T any] struct {
	mu      sync.Mutex
	classes map[int][][]T
	minCap  int
}

// New builds an empty pool. minCap floors every size class: a request
// for fewer elements than minCap still gets a minCap-sized buffer.
func New[T any](minCap int) *Pool[T] {
	if minCap < 1 {
		minCap = 1
	}
	return &Pool[T]{classes: make(map[int][][]T), minCap: minCap}
}

func sizeClass(n, floor int) int {
	c := floor
	for c < n {
		c <<= 1
	}
	return c
}

// Acquire returns a buffer of length 0 and capacity >= minCapacity.
// Contents are undefined: the caller must not assume zeroed memory and
// must re-slice to the length it needs before reading.
func (p *Pool[T]) Acquire(minCapacity int) []T {
	class := sizeClass(minCapacity, p.minCap)

	p.mu.Lock()
	bucket := p.classes[class]
	var buf []T
	if n := len(bucket); n > 0 {
		buf = bucket[n-1]
		p.classes[class] = bucket[:n-1]
	}
	p.mu.Unlock()

	if buf == nil {
		buf = make([]T, 0, class)
	}
	return buf[:0]
}

// Release returns buf to the pool under the largest size class its
// capacity covers; a buffer smaller than the smallest class is
// dropped. Releasing is always safe to call, including at process
// exit with no matching teardown (leaked buffers are acceptable).
func (p *Pool[T]) Release(buf []T) {
	if cap(buf) == 0 {
		return
	}
	class := p.minCap
	if cap(buf) < class {
		return
	}
	// A buffer's capacity need not be a class size (it may have grown
	// via append or been allocated outside the pool); file it under the
	// largest class it does not exceed.
	for class<<1 <= cap(buf) {
		class <<= 1
	}
	p.mu.Lock()
	p.classes[class] = append(p.classes[class], buf[:0])
	p.mu.Unlock()
}

// GrowCapacity computes the next capacity for a buffer that must hold
// at least requested elements, given its current capacity: the
// standard max(2*old, requested) doubling policy (§4.A).
func GrowCapacity(oldCap, requested int) int {
	g := oldCap * 2
	if g < requested {
		g = requested
	}
	if g < 1 {
		g = 1
	}
	return g
}
