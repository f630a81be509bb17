package datastructure

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeapExtractsInRankOrder(t *testing.T) {
	h := NewFourAryHeap[int64]()

	ranks := make([]float64, 0, 100)
	for i := 0; i < 100; i++ {
		rank := rand.Float64() * 1000
		ranks = append(ranks, rank)
		h.Insert(NewPriorityQueueNode(rank, int64(i)))
	}
	sort.Float64s(ranks)

	for _, want := range ranks {
		node, err := h.ExtractMin()
		require.NoError(t, err)
		assert.Equal(t, want, node.GetRank())
	}
	assert.True(t, h.IsEmpty())
}

func TestMinHeapDecreaseKey(t *testing.T) {
	h := NewBinaryHeap[int64]()

	a := NewPriorityQueueNode(10.0, int64(1))
	b := NewPriorityQueueNode(20.0, int64(2))
	h.Insert(a)
	h.Insert(b)

	require.NoError(t, h.DecreaseKey(b, 5.0))

	minNode, err := h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, int64(2), minNode.GetItem())
	assert.Equal(t, 5.0, minNode.GetRank())
}

func TestMinHeapDecreaseKeyRejectsIncrease(t *testing.T) {
	h := NewBinaryHeap[int64]()
	a := NewPriorityQueueNode(10.0, int64(1))
	h.Insert(a)

	assert.Error(t, h.DecreaseKey(a, 15.0))
}

func TestMinHeapExtractFromEmpty(t *testing.T) {
	h := NewBinaryHeap[int64]()
	_, err := h.ExtractMin()
	assert.Error(t, err)
}
