// internal/repository/memory_repository.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/models"
)

type memoryEntry struct {
	wine models.Wine
	seq  uint64
}

type memoryWineRepository struct {
	mu    sync.RWMutex
	wines map[uuid.UUID]*memoryEntry
	seq   uint64
}

// NewMemoryWineRepository keeps wines in process memory. It backs
// DATABASE_DRIVER=memory and the HTTP tests.
func NewMemoryWineRepository() WineRepository {
	return &memoryWineRepository{wines: make(map[uuid.UUID]*memoryEntry)}
}

func (r *memoryWineRepository) Create(ctx context.Context, wine *models.Wine) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Internal("create wine failed", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if wine.ID == uuid.Nil {
		wine.ID = uuid.New()
	}
	if _, exists := r.wines[wine.ID]; exists {
		return apperrors.Internal("create wine failed", errDuplicateID)
	}
	r.seq++
	r.wines[wine.ID] = &memoryEntry{wine: *wine, seq: r.seq}
	return nil
}

func (r *memoryWineRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]models.Wine, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Internal("list wines failed", err)
	}

	// Entries are copied under the lock; Update mutates them in place.
	r.mu.RLock()
	entries := make([]memoryEntry, 0)
	for _, e := range r.wines {
		if e.wine.OwnerID == ownerID {
			entries = append(entries, *e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].wine.CreatedAt.Equal(entries[j].wine.CreatedAt) {
			return entries[i].wine.CreatedAt.After(entries[j].wine.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	total := int64(len(entries))
	if opts.Limit > 0 {
		start := opts.Offset
		if start < 0 {
			start = 0
		}
		if start > len(entries) {
			start = len(entries)
		}
		end := len(entries)
		if opts.Limit < end-start {
			end = start + opts.Limit
		}
		entries = entries[start:end]
	}

	wines := make([]models.Wine, 0, len(entries))
	for _, e := range entries {
		wines = append(wines, e.wine)
	}
	return wines, total, nil
}

func (r *memoryWineRepository) GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.Wine, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Internal("get wine failed", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.wines[id]
	if !ok || e.wine.OwnerID != ownerID {
		return nil, apperrors.NotFound(errWineNotFound)
	}
	wine := e.wine
	return &wine, nil
}

func (r *memoryWineRepository) Update(ctx context.Context, id uuid.UUID, ownerID string, changes models.WineChanges, updatedAt time.Time) (*models.Wine, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Internal("update wine failed", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.wines[id]
	if !ok || e.wine.OwnerID != ownerID {
		return nil, apperrors.NotFound(errWineNotFound)
	}
	changes.Apply(&e.wine, updatedAt)
	wine := e.wine
	return &wine, nil
}

func (r *memoryWineRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Internal("delete wine failed", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.wines[id]
	if !ok || e.wine.OwnerID != ownerID {
		return apperrors.NotFound(errWineNotFound)
	}
	delete(r.wines, id)
	return nil
}
