package search

import (
	"testing"

	"github.com/matryer/is"
)

func TestQueueOrdering(t *testing.T) {
	is := is.New(t)
	q := frameQueue{}
	items := []queueItem{
		{id: 0, deferrals: 1, plies: 0, seq: 1},
		{id: 1, deferrals: 0, plies: 2, seq: 2},
		{id: 2, deferrals: 0, plies: 1, shallowUsed: 1, seq: 3},
		{id: 3, deferrals: 0, plies: 1, shallowUsed: 0, score: -1, seq: 4},
		{id: 4, deferrals: 0, plies: 1, shallowUsed: 0, score: 3, seq: 5},
		{id: 5, deferrals: 0, plies: 1, shallowUsed: 0, score: 3, seq: 6},
		{id: 6, deferrals: 2, plies: 0, seq: 7},
	}
	// Push in reverse so the heap has to do the work.
	for i := len(items) - 1; i >= 0; i-- {
		q.push(items[i])
	}
	order := []int{}
	for q.Len() > 0 {
		order = append(order, q.pop().id)
	}
	is.Equal(order, []int{4, 5, 3, 2, 1, 0, 6})
}

func TestArenaReusesIDs(t *testing.T) {
	is := is.New(t)
	a := arena{}
	id0 := a.alloc()
	id1 := a.alloc()
	is.Equal(a.live, 2)
	a.get(id0).pending = 3
	a.release(id0)
	is.Equal(a.live, 1)
	id2 := a.alloc()
	is.Equal(id2, id0)
	is.Equal(a.get(id2).pending, 0)
	is.True(id1 != id2)
}
