// internal/repository/wine_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/models"
)

const errWineNotFound = "wine not found"

var errDuplicateID = errors.New("duplicate wine id")

type gormWineRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewWineRepository returns a Postgres-backed repository. Each call is bounded
// by timeout when it is positive.
func NewWineRepository(db *gorm.DB, timeout time.Duration) WineRepository {
	return &gormWineRepository{db: db, timeout: timeout}
}

func (r *gormWineRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *gormWineRepository) Create(ctx context.Context, wine *models.Wine) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(wine).Error; err != nil {
		return apperrors.Internal("create wine failed", err)
	}
	return nil
}

func (r *gormWineRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]models.Wine, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	wines := make([]models.Wine, 0)
	query := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at DESC")

	if opts.Limit <= 0 {
		if err := query.Find(&wines).Error; err != nil {
			return nil, 0, apperrors.Internal("list wines failed", err)
		}
		return wines, int64(len(wines)), nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Wine{}).Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("count wines failed", err)
	}
	if err := query.Offset(opts.Offset).Limit(opts.Limit).Find(&wines).Error; err != nil {
		return nil, 0, apperrors.Internal("list wines failed", err)
	}
	return wines, total, nil
}

func (r *gormWineRepository) GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.Wine, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.find(ctx, id, ownerID)
}

func (r *gormWineRepository) find(ctx context.Context, id uuid.UUID, ownerID string) (*models.Wine, error) {
	var wine models.Wine
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&wine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(errWineNotFound)
		}
		return nil, apperrors.Internal("get wine failed", err)
	}
	return &wine, nil
}

func (r *gormWineRepository) Update(ctx context.Context, id uuid.UUID, ownerID string, changes models.WineChanges, updatedAt time.Time) (*models.Wine, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.find(ctx, id, ownerID); err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&models.Wine{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(changes.Columns(updatedAt))
	if res.Error != nil {
		return nil, apperrors.Internal("update wine failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound(errWineNotFound)
	}

	return r.find(ctx, id, ownerID)
}

func (r *gormWineRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.find(ctx, id, ownerID); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Wine{})
	if res.Error != nil {
		return apperrors.Internal("delete wine failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(errWineNotFound)
	}
	return nil
}
