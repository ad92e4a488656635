package search

import "container/heap"

// queueItem snapshots the ordering keys of a frame when it is pushed.
type queueItem struct {
	id          int
	deferrals   int
	plies       int
	shallowUsed int
	score       float64
	seq         uint64
}

// higher reports whether a should be dequeued before b.
func (a queueItem) higher(b queueItem) bool {
	if a.deferrals != b.deferrals {
		return a.deferrals < b.deferrals
	}
	if a.plies != b.plies {
		return a.plies < b.plies
	}
	if a.shallowUsed != b.shallowUsed {
		return a.shallowUsed < b.shallowUsed
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}

// frameQueue implements heap.Interface; the head is the highest priority
// frame.
type frameQueue []queueItem

func (q frameQueue) Len() int           { return len(q) }
func (q frameQueue) Less(i, j int) bool { return q[i].higher(q[j]) }
func (q frameQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *frameQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *frameQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (q *frameQueue) push(item queueItem) {
	heap.Push(q, item)
}

func (q *frameQueue) pop() queueItem {
	return heap.Pop(q).(queueItem)
}
