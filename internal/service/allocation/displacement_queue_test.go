package allocation

import (
	"testing"
)

func TestDisplacementQueue_Order(t *testing.T) {
	tests := []struct {
		name string
		push []displacementItem
		want []int64
	}{
		{
			name: "rank ascending",
			push: []displacementItem{
				{UserID: 1, Rank: 2},
				{UserID: 2, Rank: 0},
				{UserID: 3, Rank: 1},
			},
			want: []int64{2, 3, 1},
		},
		{
			name: "ties keep push order",
			push: []displacementItem{
				{UserID: 7, Rank: unranked},
				{UserID: 3, Rank: unranked},
				{UserID: 5, Rank: unranked},
			},
			want: []int64{7, 3, 5},
		},
		{
			name: "unranked after ranked",
			push: []displacementItem{
				{UserID: 1, Rank: unranked},
				{UserID: 2, Rank: 5},
				{UserID: 3, Rank: unranked},
				{UserID: 4, Rank: 0},
			},
			want: []int64{4, 2, 1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewDisplacementQueue(len(tt.push))
			for _, item := range tt.push {
				q.Enqueue(item.UserID, item.Rank)
			}

			var got []int64
			for q.Len() > 0 {
				got = append(got, q.Next())
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pop %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDisplacementQueue_SequenceSurvivesPops(t *testing.T) {
	q := NewDisplacementQueue(4)

	q.Enqueue(1, unranked)
	q.Enqueue(2, unranked)
	if got := q.Next(); got != 1 {
		t.Fatalf("Next() = %d, want 1", got)
	}

	q.Enqueue(3, unranked)
	if got := q.Next(); got != 2 {
		t.Errorf("Next() = %d, want 2", got)
	}
	if got := q.Next(); got != 3 {
		t.Errorf("Next() = %d, want 3", got)
	}
}
