package datastructure

import (
	"testing"

	"golang.org/x/exp/rand"
)

func generateRandomInteger(min int, max int) int {
	return min + rand.Intn(max-min)
}

func TestPriorityQueue(t *testing.T) {
	pq := NewMinHeap[int32]()
	if pq == nil {
		t.Errorf("PriorityQueue is nil")
	}

	for i := 0; i < 10000; i++ {
		item := PriorityQueueNode[int32]{Rank: float64(generateRandomInteger(0, 10000)), Seq: int64(i), Item: int32(i)}
		pq.Insert(item)
	}

	prevItem, ok := pq.ExtractMin()
	if !ok {
		t.Errorf("Error extract min")
	}
	for i := 1; i < 10000; i++ {
		item, ok := pq.ExtractMin()
		if !ok {
			t.Errorf("Error extract min")
		}

		if prevItem.Rank > item.Rank {
			t.Errorf("PriorityQueue is not sorted")
		}
		prevItem = item
	}

	if pq.Size() != 0 {
		t.Errorf("PriorityQueue should be empty")
	}
}

func TestPriorityQueueInsertionOrderTieBreak(t *testing.T) {
	pq := NewMinHeap[string]()

	pq.Insert(NewPriorityQueueNode(1.0, 0, "first"))
	pq.Insert(NewPriorityQueueNode(1.0, 1, "second"))
	pq.Insert(NewPriorityQueueNode(1.0, 2, "third"))
	pq.Insert(NewPriorityQueueNode(0.5, 3, "smallest"))

	want := []string{"smallest", "first", "second", "third"}
	for _, expected := range want {
		item, ok := pq.ExtractMin()
		if !ok {
			t.Fatalf("heap emptied early, want %q", expected)
		}
		if item.Item != expected {
			t.Errorf("got %q, want %q", item.Item, expected)
		}
	}
}

func TestPriorityQueueGetMin(t *testing.T) {
	pq := NewMinHeap[int]()
	if _, ok := pq.GetMin(); ok {
		t.Errorf("GetMin on empty heap should report not ok")
	}

	pq.Insert(NewPriorityQueueNode(3.0, 0, 30))
	pq.Insert(NewPriorityQueueNode(1.0, 1, 10))

	min, ok := pq.GetMin()
	if !ok || min.Item != 10 {
		t.Errorf("GetMin = %v, want item 10", min.Item)
	}
	if pq.Size() != 2 {
		t.Errorf("GetMin must not pop, size = %d", pq.Size())
	}
}
