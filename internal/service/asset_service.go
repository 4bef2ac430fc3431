package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// AssetService owns equipment record CRUD, scoped to the owning user unless
// the actor holds an elevated role.
type AssetService interface {
	Create(ctx context.Context, actor Actor, asset *model.Asset) (*model.Asset, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, actor Actor, filter repository.AssetFilter) ([]model.Asset, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, updated *model.Asset) (*model.Asset, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type assetService struct {
	assetRepo repository.AssetRepository
}

// NewAssetService creates a new asset service.
func NewAssetService(assetRepo repository.AssetRepository) AssetService {
	return &assetService{assetRepo: assetRepo}
}

func (s *assetService) Create(ctx context.Context, actor Actor, asset *model.Asset) (*model.Asset, error) {
	asset.ID = uuid.New()
	asset.UserID = actor.ID
	if asset.Status == "" {
		asset.Status = model.AssetStatusActive
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Asset, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrAssetNotFound
		}
		return nil, err
	}
	if !actor.CanSeeAll() && asset.UserID != actor.ID {
		return nil, domerr.ErrForbidden
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, actor Actor, filter repository.AssetFilter) ([]model.Asset, error) {
	if !actor.CanSeeAll() {
		filter.UserID = &actor.ID
	}
	return s.assetRepo.List(ctx, filter)
}

func (s *assetService) Update(ctx context.Context, actor Actor, id uuid.UUID, updated *model.Asset) (*model.Asset, error) {
	asset, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	asset.Name = updated.Name
	asset.Type = updated.Type
	asset.Manufacturer = updated.Manufacturer
	asset.Specifications = updated.Specifications
	if updated.Status != "" {
		asset.Status = updated.Status
	}
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.assetRepo.Delete(ctx, id)
}
