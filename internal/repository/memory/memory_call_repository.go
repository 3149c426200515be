package memory

import (
	"context"
	"sync"

	"greeter/internal/domain"
)

const DefaultCapacity = 1000

// MemoryCallRepository - журнал вызовов в памяти, хранит последние capacity записей
type MemoryCallRepository struct {
	mu       sync.RWMutex
	ring     []*domain.CallRecord
	next     int
	size     int
	ids      map[string]struct{}
	capacity int
}

// NewMemoryCallRepository создает журнал; capacity <= 0 заменяется на DefaultCapacity
func NewMemoryCallRepository(capacity int) *MemoryCallRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryCallRepository{
		ring:     make([]*domain.CallRecord, capacity),
		ids:      make(map[string]struct{}, capacity),
		capacity: capacity,
	}
}

func (r *MemoryCallRepository) Record(ctx context.Context, call *domain.CallRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[call.ID]; ok {
		return domain.NewDuplicateCallError(call.ID, nil)
	}

	if old := r.ring[r.next]; old != nil {
		delete(r.ids, old.ID)
	}

	stored := *call
	r.ring[r.next] = &stored
	r.ids[call.ID] = struct{}{}
	r.next = (r.next + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
	return nil
}

// Recent возвращает записи от новых к старым
func (r *MemoryCallRepository) Recent(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	limit = domain.NormalizeLimit(limit)
	if limit > r.size {
		limit = r.size
	}

	calls := make([]*domain.CallRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + r.capacity) % r.capacity
		call := *r.ring[idx]
		calls = append(calls, &call)
	}
	return calls, nil
}

func (r *MemoryCallRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
