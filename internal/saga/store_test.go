package saga

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendListGet(t *testing.T) {
	store := NewStore()

	first := &Order{ID: store.NextID(), Item: "apple", Status: OrderCompleted}
	second := &Order{ID: store.NextID(), Item: "banana", Status: OrderFailed}
	store.Append(first)
	store.Append(second)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0], "insertion order is preserved")
	assert.Equal(t, second, list[1])

	got, ok := store.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, second, got)

	_, ok = store.Get(999)
	assert.False(t, ok)
}

func TestStore_CompletedCount(t *testing.T) {
	store := NewStore()
	store.Append(&Order{ID: store.NextID(), Status: OrderCompleted})
	store.Append(&Order{ID: store.NextID(), Status: OrderFailed})
	store.Append(&Order{ID: store.NextID(), Status: OrderCompleted})

	assert.Equal(t, 2, store.CompletedCount())
}

func TestStore_NextIDUniqueUnderConcurrency(t *testing.T) {
	store := NewStore()

	const goroutines = 50
	const perGoroutine = 100

	ids := make(chan int64, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				ids <- store.NextID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Append(&Order{ID: store.NextID()})

	list := store.List()
	list[0] = nil

	fresh := store.List()
	require.NotNil(t, fresh[0])
}
