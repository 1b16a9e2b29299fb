// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartadega/smartadega-api/internal/models"
)

// ListOptions pages a listing. A zero Limit returns every row.
type ListOptions struct {
	Offset int
	Limit  int
}

// WineRepository stores wines. Reads, updates and deletes are always scoped to
// the owner; a wine that exists but belongs to someone else is reported
// exactly like one that does not exist.
type WineRepository interface {
	Create(ctx context.Context, wine *models.Wine) error
	// ListByOwner returns the owner's wines newest first, plus the total count.
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]models.Wine, int64, error)
	GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.Wine, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, changes models.WineChanges, updatedAt time.Time) (*models.Wine, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}
