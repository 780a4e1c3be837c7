package datastructure

// PriorityQueueNode is one entry of the min-heap. Seq is a monotonically
// increasing insertion counter: equal-rank entries pop in insertion order,
// and items themselves never need to be orderable.
type PriorityQueueNode[T any] struct {
	Rank float64
	Seq  int64
	Item T
}

func NewPriorityQueueNode[T any](rank float64, seq int64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Seq: seq, Item: item}
}

// MinHeap binary heap priorityqueue ordered by (Rank, Seq). There is no
// DecreaseKey: callers push updated entries and discard stale pops
// (lazy deletion).
type MinHeap[T any] struct {
	heap []PriorityQueueNode[T]
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].Seq < h.heap[j].Seq
}

// parent get index of the parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index of the left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index of the right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// GetMin peeks at the minimum entry (index 0) without removing it.
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], bool) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, false
	}
	return h.heap[0], true
}

// Insert pushes a new entry and sifts it up. O(logN) tree height.
func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	index := h.Size() - 1

	for index != 0 && h.less(index, h.parent(index)) {
		h.heap[h.parent(index)], h.heap[index] = h.heap[index], h.heap[h.parent(index)]
		index = h.parent(index)
	}
}

// ExtractMin pops the minimum entry (index 0) and restores the heap
// property by sifting the moved tail entry down. O(logN).
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], bool) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, false
	}
	root := h.heap[0]
	h.heap[0] = h.heap[h.Size()-1]
	h.heap = h.heap[:h.Size()-1]

	index := 0
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)
		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			break
		}
		h.heap[smallest], h.heap[index] = h.heap[index], h.heap[smallest]
		index = smallest
	}
	return root, true
}
