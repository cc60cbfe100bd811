package billing

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceAllocatorMonotonic(t *testing.T) {
	a := NewSequenceAllocator(0)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 100; i++ {
		n, err := a.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
	assert.Equal(t, int64(100), prev)
}

func TestSequenceAllocatorStartsAfterSeed(t *testing.T) {
	a := NewSequenceAllocator(41)
	n, err := a.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestSequenceAllocatorUniqueUnderConcurrency(t *testing.T) {
	const workers = 16
	const perWorker = 250

	a := NewSequenceAllocator(0)
	ctx := context.Background()

	var mu sync.Mutex
	seen := make([]int64, 0, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				n, err := a.Next(ctx)
				if err != nil {
					t.Error(err)
					return
				}
				local = append(local, n)
			}
			mu.Lock()
			seen = append(seen, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	for i, n := range seen {
		// no duplicates, no gaps
		assert.Equal(t, int64(i+1), n)
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-000001", FormatInvoiceNumber(1))
	assert.Equal(t, "INV-000419", FormatInvoiceNumber(419))
	assert.Equal(t, "INV-1000000", FormatInvoiceNumber(1000000))
}
