// internal/services/wine_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/models"
	"github.com/smartadega/smartadega-api/internal/repository"
	"github.com/smartadega/smartadega-api/internal/utils"
)

type WineService struct {
	repo      repository.WineRepository
	validator *utils.WineValidator
	now       func() time.Time
}

type ListWinesRequest struct {
	Offset int
	Limit  int
}

func NewWineService(repo repository.WineRepository, validator *utils.WineValidator) *WineService {
	return &WineService{
		repo:      repo,
		validator: validator,
		now:       time.Now,
	}
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return apperrors.Unauthorized(apperrors.AuthMissing, errors.New("no principal"))
	}
	return nil
}

// timestamp is the current time at the precision Postgres keeps.
func (s *WineService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// CreateWine validates payload and stores it for ownerID. The id, owner and
// timestamps are always set here, whatever the payload says.
func (s *WineService) CreateWine(ctx context.Context, ownerID string, payload map[string]interface{}) (*models.Wine, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	input, err := s.validator.ValidateCreate(payload)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	wine := &models.Wine{
		OwnerID:  ownerID,
		Name:     *input.Name,
		Region:   models.DefaultRegion,
		Year:     *input.Year,
		Quantity: *input.Quantity,
	}
	wine.ID = uuid.New()
	wine.CreatedAt = now
	wine.UpdatedAt = now

	if input.Grape != nil {
		wine.Grape = *input.Grape
	}
	if input.Region != nil && *input.Region != "" {
		wine.Region = *input.Region
	}
	if input.Price != nil {
		wine.Price = *input.Price
	}
	if input.Rating != nil {
		wine.Rating = *input.Rating
	}

	if err := s.repo.Create(ctx, wine); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"wine_id": wine.ID,
		"user_id": ownerID,
	}).Info("Wine created")

	return wine, nil
}

func (s *WineService) ListWines(ctx context.Context, ownerID string, req ListWinesRequest) ([]models.Wine, int64, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByOwner(ctx, ownerID, repository.ListOptions{Offset: req.Offset, Limit: req.Limit})
}

func (s *WineService) GetWine(ctx context.Context, ownerID string, id uuid.UUID) (*models.Wine, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// UpdateWine applies the fields present in payload. An empty payload only
// refreshes updated_at.
func (s *WineService) UpdateWine(ctx context.Context, ownerID string, id uuid.UUID, payload map[string]interface{}) (*models.Wine, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	input, err := s.validator.ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}

	wine, err := s.repo.Update(ctx, id, ownerID, input.Changes(), s.timestamp())
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"wine_id": id,
		"user_id": ownerID,
	}).Info("Wine updated")

	return wine, nil
}

func (s *WineService) DeleteWine(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"wine_id": id,
		"user_id": ownerID,
	}).Info("Wine deleted")

	return nil
}
