// Package queue provides the min-priority queue driving best-first search.
package queue

import "container/heap"

// Compile time check to ensure items satisfies the heap interface.
var _ heap.Interface = (*items[struct{}])(nil)

// item is an element of the priority queue: an arbitrary value and its
// priority. seq is the insertion sequence number; it breaks distance ties so
// equal-priority values pop in insertion order, deterministically.
type item[T any] struct {
	value    T
	distance float64
	seq      uint64
}

type items[T any] []item[T]

func (it items[T]) Len() int { return len(it) }

func (it items[T]) Less(i, j int) bool {
	if it[i].distance != it[j].distance {
		return it[i].distance < it[j].distance
	}
	return it[i].seq < it[j].seq
}

func (it items[T]) Swap(i, j int) { it[i], it[j] = it[j], it[i] }

func (it *items[T]) Push(x any) {
	entry, _ := x.(item[T])
	*it = append(*it, entry)
}

func (it *items[T]) Pop() any {
	old := *it
	n := len(old)
	entry := old[n-1]
	old[n-1] = item[T]{} // Avoid holding on to the value
	*it = old[:n-1]
	return entry
}

// PriorityQueue is a min-priority queue over values of type T, ordered by
// ascending distance. It is not safe for concurrent use.
type PriorityQueue[T any] struct {
	items items[T]
	seq   uint64
}

// New creates an empty priority queue.
func New[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Len returns the number of queued values.
func (pq *PriorityQueue[T]) Len() int { return len(pq.items) }

// Push queues a value with the given priority.
func (pq *PriorityQueue[T]) Push(value T, distance float64) {
	heap.Push(&pq.items, item[T]{value: value, distance: distance, seq: pq.seq})
	pq.seq++
}

// Pop removes and returns the value with the smallest distance, along with
// that distance. ok is false if the queue is empty.
func (pq *PriorityQueue[T]) Pop() (value T, distance float64, ok bool) {
	if len(pq.items) == 0 {
		return value, 0, false
	}
	entry, _ := heap.Pop(&pq.items).(item[T])
	return entry.value, entry.distance, true
}

// Top returns the value with the smallest distance without removing it.
func (pq *PriorityQueue[T]) Top() (value T, distance float64, ok bool) {
	if len(pq.items) == 0 {
		return value, 0, false
	}
	return pq.items[0].value, pq.items[0].distance, true
}
