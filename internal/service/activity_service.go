package service

import (
	"context"

	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// ActivityService exposes read access to the append-only audit trail.
type ActivityService interface {
	List(ctx context.Context, actor Actor, filter repository.ActivityFilter) ([]model.ActivityLog, error)
}

type activityService struct {
	activityRepo repository.ActivityLogRepository
}

// NewActivityService creates a new activity service.
func NewActivityService(activityRepo repository.ActivityLogRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) List(ctx context.Context, actor Actor, filter repository.ActivityFilter) ([]model.ActivityLog, error) {
	if !actor.CanSeeAll() {
		// Non-privileged callers see only their own trail.
		filter.UserID = &actor.ID
	}
	return s.activityRepo.List(ctx, filter)
}
