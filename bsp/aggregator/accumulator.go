/*
	aggregator package provides bsp.Aggregator implementations that are safe
	to feed from concurrently running compute workers.
*/

package aggregator

import (
	"sort"
	"sync"
	"sync/atomic"
)

// OrderedFloat64Accumulator sorts its contributions before summing them, so
// the same set of contributions always yields a bit-identical total
// regardless of arrival order.
type OrderedFloat64Accumulator struct {
	mu      sync.Mutex
	base    float64
	values  []float64
	sum     float64
	dirty   bool
	prevSum float64
}

// Type implements bsp.Aggregator.
func (a *OrderedFloat64Accumulator) Type() string {
	return "OrderedFloat64Accumulator"
}

// Get implements bsp.Aggregator.
func (a *OrderedFloat64Accumulator) Get() interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.total()
}

// Set implements bsp.Aggregator.
func (a *OrderedFloat64Accumulator) Set(val interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.base = val.(float64)
	a.values = a.values[:0]
	a.sum = a.base
	a.dirty = false
	a.prevSum = a.base
}

// Aggregate implements bsp.Aggregator.
func (a *OrderedFloat64Accumulator) Aggregate(val interface{}) {
	a.mu.Lock()
	a.values = append(a.values, val.(float64))
	a.dirty = true
	a.mu.Unlock()
}

// Delta implements bsp.Aggregator.
func (a *OrderedFloat64Accumulator) Delta() interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	curr := a.total()
	delta := curr - a.prevSum
	a.prevSum = curr

	return delta
}

// total must be called with mu held.
func (a *OrderedFloat64Accumulator) total() float64 {
	if !a.dirty {
		return a.sum
	}

	sort.Float64s(a.values)

	sum := a.base
	for _, v := range a.values {
		sum += v
	}

	a.sum = sum
	a.dirty = false

	return sum
}

// IntAccumulator sums int values. Integer addition is exact, so the result
// never depends on arrival order.
type IntAccumulator struct {
	prevSum int64
	currSum int64
}

// Type implements bsp.Aggregator.
func (a *IntAccumulator) Type() string {
	return "IntAccumulator"
}

// Get implements bsp.Aggregator.
func (a *IntAccumulator) Get() interface{} {
	return int(atomic.LoadInt64(&a.currSum))
}

// Set implements bsp.Aggregator.
func (a *IntAccumulator) Set(val interface{}) {
	for value := int64(val.(int)); ; {
		oldCurr := atomic.LoadInt64(&a.currSum)
		oldPrev := atomic.LoadInt64(&a.prevSum)

		swappedCurr := atomic.CompareAndSwapInt64(&a.currSum, oldCurr, value)
		swappedPrev := atomic.CompareAndSwapInt64(&a.prevSum, oldPrev, value)

		if swappedCurr && swappedPrev {
			return
		}
	}
}

// Aggregate implements bsp.Aggregator.
func (a *IntAccumulator) Aggregate(val interface{}) {
	atomic.AddInt64(&a.currSum, int64(val.(int)))
}

// Delta implements bsp.Aggregator.
func (a *IntAccumulator) Delta() interface{} {
	for {
		curr := atomic.LoadInt64(&a.currSum)
		prev := atomic.LoadInt64(&a.prevSum)

		if atomic.CompareAndSwapInt64(&a.prevSum, prev, curr) {
			return int(curr - prev)
		}
	}
}
