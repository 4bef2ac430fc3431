package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servicedesk/internal/model"
)

// RequestFilter narrows service request listings. Zero values are ignored.
type RequestFilter struct {
	UserID     *uuid.UUID
	AssigneeID *uuid.UUID
	Status     model.RequestStatus
	Priority   model.RequestPriority
	JobType    string
	Search     string
}

// ServiceRequestRepository defines service request persistence operations.
type ServiceRequestRepository interface {
	Create(ctx context.Context, request *model.ServiceRequest) error
	Update(ctx context.Context, request *model.ServiceRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.ServiceRequest, error)
	ListForTechnician(ctx context.Context, technicianID uuid.UUID) ([]model.ServiceRequest, error)
	ClaimPending(ctx context.Context, id, technicianID uuid.UUID) (int64, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, completedAt *time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[model.RequestStatus]int64, error)
}

type serviceRequestRepository struct {
	db *gorm.DB
}

// NewServiceRequestRepository creates a new service request repository.
func NewServiceRequestRepository(db *gorm.DB) ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *model.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *serviceRequestRepository) Update(ctx context.Context, request *model.ServiceRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *serviceRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ServiceRequest{}, "id = ?", id).Error
}

func (r *serviceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	var request model.ServiceRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *serviceRequestRepository) List(ctx context.Context, filter RequestFilter) ([]model.ServiceRequest, error) {
	q := r.db.WithContext(ctx).Model(&model.ServiceRequest{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.AssigneeID != nil {
		q = q.Where("assigned_technician_id = ?", *filter.AssigneeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.JobType != "" {
		q = q.Where("job_type = ?", filter.JobType)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	var requests []model.ServiceRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListForTechnician returns the unclaimed pending pool plus the technician's
// own active workload.
func (r *serviceRequestRepository) ListForTechnician(ctx context.Context, technicianID uuid.UUID) ([]model.ServiceRequest, error) {
	var requests []model.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("(status = ? AND assigned_technician_id IS NULL) OR assigned_technician_id = ?",
			model.RequestStatusPending, technicianID).
		Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ClaimPending assigns a pending, unassigned request to the technician in one
// conditional update. Zero rows affected means another actor won the claim.
func (r *serviceRequestRepository) ClaimPending(ctx context.Context, id, technicianID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ServiceRequest{}).
		Where("id = ? AND status = ? AND assigned_technician_id IS NULL", id, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":                 model.RequestStatusAssigned,
			"assigned_technician_id": technicianID,
		})
	return res.RowsAffected, res.Error
}

// TransitionStatus moves the request from one status to another, guarded on
// the expected current status so concurrent writers cannot skip states.
func (r *serviceRequestRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, completedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := r.db.WithContext(ctx).Model(&model.ServiceRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *serviceRequestRepository) CountByStatus(ctx context.Context) (map[model.RequestStatus]int64, error) {
	type row struct {
		Status model.RequestStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.ServiceRequest{}).
		Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.RequestStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}
