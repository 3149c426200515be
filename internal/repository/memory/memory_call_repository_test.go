package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"greeter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCall(i int) *domain.CallRecord {
	return &domain.CallRecord{
		ID:        fmt.Sprintf("call-%d", i),
		Operation: domain.OperationAddNumbers,
		Input:     fmt.Sprintf(`{"a":%d,"b":0}`, i),
		Output:    fmt.Sprint(i),
		CreatedAt: time.Unix(int64(i), 0).UTC(),
	}
}

func TestRecentNewestFirst(t *testing.T) {
	repo := NewMemoryCallRepository(10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, newCall(i)))
	}

	calls, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.Equal(t, "call-2", calls[0].ID)
	assert.Equal(t, "call-0", calls[2].ID)

	calls, err = repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, "call-1", calls[1].ID)
}

func TestRingEvictsOldest(t *testing.T) {
	repo := NewMemoryCallRepository(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, newCall(i)))
	}

	calls, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"call-4", "call-3", "call-2"}, []string{calls[0].ID, calls[1].ID, calls[2].ID})

	// вытесненный ID можно записать повторно
	assert.NoError(t, repo.Record(ctx, newCall(0)))
}

func TestRecordDuplicate(t *testing.T) {
	repo := NewMemoryCallRepository(3)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, newCall(1)))
	err := repo.Record(ctx, newCall(1))
	assert.ErrorIs(t, err, domain.ErrDuplicateCall)
}

func TestRecordCopiesInput(t *testing.T) {
	repo := NewMemoryCallRepository(3)
	ctx := context.Background()

	call := newCall(1)
	require.NoError(t, repo.Record(ctx, call))
	call.Output = "mutated"

	calls, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", calls[0].Output)
}

func TestCanceledContext(t *testing.T) {
	repo := NewMemoryCallRepository(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Record(ctx, newCall(1)), context.Canceled)
	_, err := repo.Recent(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}

func TestConcurrentRecord(t *testing.T) {
	repo := NewMemoryCallRepository(DefaultCapacity)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Record(ctx, newCall(i)))
		}(i)
	}
	wg.Wait()

	calls, err := repo.Recent(ctx, domain.MaxCallsLimit)
	require.NoError(t, err)
	assert.Len(t, calls, 100)
}
