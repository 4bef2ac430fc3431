package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servicedesk/internal/cache"
	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// UpdateProfileInput carries the owner-editable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	Bio       string
	Company   string
	Position  string
	AvatarURL string
}

// ProfileService owns profile reads/updates and the staff directory.
type ProfileService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateProfileInput) (*model.Profile, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	ListStaff(ctx context.Context, actor Actor) ([]model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	cache       *cache.Client
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, cache *cache.Client) ProfileService {
	return &profileService{profileRepo: profileRepo, cache: cache}
}

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("profile:%s", id)
}

func (s *profileService) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	if data, _ := s.cache.Get(ctx, profileCacheKey(id)); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrProfileNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, profileCacheKey(id), payload, profileCacheTTL)
	}
	return profile, nil
}

// Update mutates a profile. Owners edit themselves; admins edit anyone.
func (s *profileService) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateProfileInput) (*model.Profile, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, domerr.ErrForbidden
	}

	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrProfileNotFound
		}
		return nil, err
	}

	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.Phone = input.Phone
	profile.Bio = input.Bio
	profile.Company = input.Company
	profile.Position = input.Position
	profile.AvatarURL = input.AvatarURL

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, profileCacheKey(id))
	return profile, nil
}

// Delete removes an identity. Admin only; profiles are otherwise never
// hard-deleted.
func (s *profileService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return domerr.ErrForbidden
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, profileCacheKey(id))
	return nil
}

// ListStaff returns all profiles with their role assignments for the staff
// management screen. Elevated roles only.
func (s *profileService) ListStaff(ctx context.Context, actor Actor) ([]model.Profile, error) {
	if !actor.CanSeeAll() {
		return nil, domerr.ErrForbidden
	}
	return s.profileRepo.ListWithRoles(ctx)
}
