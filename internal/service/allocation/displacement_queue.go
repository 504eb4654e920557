package allocation

import (
	"container/heap"
	"math"
)

// unranked places users missing from the priority order after every ranked user.
const unranked = math.MaxInt

type displacementItem struct {
	UserID int64
	Rank   int
	Seq    int
	Index  int
}

// DisplacementQueue pops the candidates of one overloaded slot in the order
// they should absorb a displacement: lower priority rank first, then the
// order in which they were pushed.
type DisplacementQueue struct {
	items []*displacementItem
	seq   int
}

func NewDisplacementQueue(capacity int) *DisplacementQueue {
	return &DisplacementQueue{
		items: make([]*displacementItem, 0, capacity),
	}
}

func (q *DisplacementQueue) Len() int {
	return len(q.items)
}

func (q *DisplacementQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]

	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}

	return a.Seq < b.Seq
}

func (q *DisplacementQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].Index = i
	q.items[j].Index = j
}

func (q *DisplacementQueue) Push(x any) {
	item := x.(*displacementItem)
	item.Index = len(q.items)
	q.items = append(q.items, item)
}

func (q *DisplacementQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	q.items = old[0 : n-1]
	return item
}

// Enqueue adds a candidate; rank is its position in the priority order, or
// unranked.
func (q *DisplacementQueue) Enqueue(userID int64, rank int) {
	heap.Push(q, &displacementItem{
		UserID: userID,
		Rank:   rank,
		Seq:    q.seq,
		Index:  -1,
	})
	q.seq++
}

func (q *DisplacementQueue) Next() int64 {
	return heap.Pop(q).(*displacementItem).UserID
}
