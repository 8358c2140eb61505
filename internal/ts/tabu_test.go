package ts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabuList_StartsFullOfEmptySlots(t *testing.T) {
	tl := newTabuList(4)
	require.Equal(t, 4, tl.Len())
	require.Equal(t, 4, tl.Cap())

	for _, s := range tl.Slots() {
		assert.False(t, s.set)
	}
	// пустая ячейка не совпадает ни с одним элементом, в том числе с -1
	for el := -1; el < 10; el++ {
		assert.False(t, tl.Contains(el), "element %d", el)
	}
}

func TestTabuList_FIFO(t *testing.T) {
	tl := newTabuList(2)

	tl.EvictOldest()
	tl.Push(some(3))
	tl.EvictOldest()
	tl.Push(none)
	assert.True(t, tl.Contains(3))
	assert.Equal(t, []slot{some(3), none}, tl.Slots())

	tl.EvictOldest()
	tl.Push(some(5))
	assert.Equal(t, []slot{none, some(5)}, tl.Slots())
	assert.False(t, tl.Contains(3))
	assert.True(t, tl.Contains(5))
	assert.Equal(t, 2, tl.Len())
}

func TestTabuList_CountsDuplicates(t *testing.T) {
	tl := newTabuList(3)
	for i := 0; i < 3; i++ {
		tl.EvictOldest()
		tl.Push(some(7))
	}
	tl.EvictOldest()
	tl.Push(none)
	assert.True(t, tl.Contains(7), "two copies remain")

	tl.EvictOldest()
	tl.Push(none)
	tl.EvictOldest()
	tl.Push(none)
	assert.False(t, tl.Contains(7))
}

func TestTabuList_SizeIsFixed(t *testing.T) {
	tl := newTabuList(2)
	require.Panics(t, func() { tl.Push(some(1)) })

	tl.EvictOldest()
	tl.EvictOldest()
	require.Panics(t, func() { tl.EvictOldest() })

	require.Panics(t, func() { newTabuList(0) })
}
