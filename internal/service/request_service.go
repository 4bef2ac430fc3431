package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/outbox"
	"servicedesk/internal/repository"
)

// CreateRequestInput carries the caller-supplied fields of a new request.
type CreateRequestInput struct {
	Title             string
	Description       string
	JobType           string
	Priority          model.RequestPriority
	Location          string
	RequiredSpecialty string
	ScheduledDate     *time.Time
}

// UpdateRequestInput carries the editable fields of an existing request.
// Status is deliberately absent: it moves only through Transition.
type UpdateRequestInput struct {
	Title             string
	Description       string
	Priority          model.RequestPriority
	Location          string
	RequiredSpecialty string
	ScheduledDate     *time.Time
}

// TransitionOptions carries optional transition parameters.
type TransitionOptions struct {
	// AssigneeID names the technician in an admin-initiated assignment.
	// Ignored for every other transition.
	AssigneeID *uuid.UUID
}

// RequestService owns service request CRUD and the lifecycle mutator. All
// status movement goes through Transition; there is no other write path for
// the status column.
type RequestService interface {
	Create(ctx context.Context, actor Actor, input CreateRequestInput) (*model.ServiceRequest, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.ServiceRequest, error)
	List(ctx context.Context, actor Actor, filter repository.RequestFilter) ([]model.ServiceRequest, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateRequestInput) (*model.ServiceRequest, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	Transition(ctx context.Context, actor Actor, id uuid.UUID, target model.RequestStatus, opts TransitionOptions) (*model.ServiceRequest, error)
}

type requestService struct {
	requestRepo repository.ServiceRequestRepository
	roleService RoleService
	uow         repository.UnitOfWork
}

// NewRequestService creates a new request service.
func NewRequestService(requestRepo repository.ServiceRequestRepository, roleService RoleService, uow repository.UnitOfWork) RequestService {
	return &requestService{requestRepo: requestRepo, roleService: roleService, uow: uow}
}

// Create opens a request in pending state and records the matching activity
// entry in the same transaction. Admins and managers are notified through the
// outbox.
func (s *requestService) Create(ctx context.Context, actor Actor, input CreateRequestInput) (*model.ServiceRequest, error) {
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	request := &model.ServiceRequest{
		ID:                uuid.New(),
		Title:             input.Title,
		Description:       input.Description,
		JobType:           input.JobType,
		Priority:          input.Priority,
		Status:            model.RequestStatusPending,
		Location:          input.Location,
		RequiredSpecialty: input.RequiredSpecialty,
		ScheduledDate:     input.ScheduledDate,
		UserID:            actor.ID,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		if err := repos.Requests.Create(ctx, request); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if err := repos.Activity.Create(ctx, &model.ActivityLog{
			UserID:      actor.ID,
			Action:      model.ActionCreateRequest,
			Description: fmt.Sprintf("created service request %q", request.Title),
			EntityType:  "service_request",
			EntityID:    request.ID.String(),
		}); err != nil {
			return err
		}

		adminIDs, err := repos.Roles.ListUserIDsByRoles(ctx, []model.Role{model.RoleAdmin, model.RoleManager})
		if err != nil {
			return fmt.Errorf("list admin recipients: %w", err)
		}
		messages := make([]model.OutboxMessage, 0, len(adminIDs))
		for _, adminID := range adminIDs {
			msg, err := outbox.NewNotificationMessage(adminID,
				"New service request",
				fmt.Sprintf("%q was opened with %s priority.", request.Title, request.Priority),
				model.NotificationInfo)
			if err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return repos.Outbox.EnqueueBatch(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.ServiceRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrRequestNotFound
		}
		return nil, err
	}
	if !s.canView(actor, request) {
		return nil, domerr.ErrForbidden
	}
	return request, nil
}

// List applies role scoping before the caller's own filters: elevated roles
// see everything, technicians see the pending pool plus their workload, and
// everyone else sees only their own rows.
func (s *requestService) List(ctx context.Context, actor Actor, filter repository.RequestFilter) ([]model.ServiceRequest, error) {
	switch {
	case actor.CanSeeAll():
		return s.requestRepo.List(ctx, filter)
	case actor.Role == model.RoleTechnician:
		return s.requestRepo.ListForTechnician(ctx, actor.ID)
	default:
		filter.UserID = &actor.ID
		return s.requestRepo.List(ctx, filter)
	}
}

func (s *requestService) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateRequestInput) (*model.ServiceRequest, error) {
	request, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(request.UserID == actor.ID && request.Status == model.RequestStatusPending) {
		return nil, domerr.ErrForbidden
	}

	request.Title = input.Title
	request.Description = input.Description
	if input.Priority != "" {
		request.Priority = input.Priority
	}
	request.Location = input.Location
	request.RequiredSpecialty = input.RequiredSpecialty
	request.ScheduledDate = input.ScheduledDate

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	request, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !(request.UserID == actor.ID && request.Status == model.RequestStatusPending) {
		return domerr.ErrForbidden
	}
	return s.requestRepo.Delete(ctx, id)
}

// Transition is the single lifecycle mutator. The actor's permission is
// checked here once; technician self-assign and admin-initiated assignment
// are the same code path. The status update, its activity entry, and the
// outgoing notifications commit in one transaction.
func (s *requestService) Transition(ctx context.Context, actor Actor, id uuid.UUID, target model.RequestStatus, opts TransitionOptions) (*model.ServiceRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrRequestNotFound
		}
		return nil, err
	}

	if !request.Status.CanTransitionTo(target) {
		return nil, domerr.ErrInvalidTransition
	}

	assignee, err := s.resolveTransitionActor(ctx, actor, request, target, opts)
	if err != nil {
		return nil, err
	}

	from := request.Status
	var completedAt *time.Time
	if target == model.RequestStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		var affected int64
		var err error
		if target == model.RequestStatusAssigned {
			affected, err = repos.Requests.ClaimPending(ctx, request.ID, *assignee)
		} else {
			affected, err = repos.Requests.TransitionStatus(ctx, request.ID, from, target, completedAt)
		}
		if err != nil {
			return err
		}
		if affected == 0 {
			return domerr.ErrRequestConflict
		}

		if err := repos.Activity.Create(ctx, &model.ActivityLog{
			UserID:      actor.ID,
			Action:      model.ActionStatusChange,
			Description: fmt.Sprintf("request %q moved from %s to %s", request.Title, from, target),
			EntityType:  "service_request",
			EntityID:    request.ID.String(),
			FromStatus:  string(from),
			ToStatus:    string(target),
		}); err != nil {
			return err
		}

		messages, err := s.transitionMessages(actor, request, target, assignee)
		if err != nil {
			return err
		}
		return repos.Outbox.EnqueueBatch(ctx, messages)
	})
	if err != nil {
		return nil, err
	}

	request.Status = target
	if target == model.RequestStatusAssigned {
		request.AssignedTechnicianID = assignee
	}
	request.CompletedAt = completedAt
	return request, nil
}

// resolveTransitionActor enforces who may trigger each transition and, for
// assignment, whom the request ends up with.
func (s *requestService) resolveTransitionActor(ctx context.Context, actor Actor, request *model.ServiceRequest, target model.RequestStatus, opts TransitionOptions) (*uuid.UUID, error) {
	switch target {
	case model.RequestStatusAssigned:
		if actor.Role == model.RoleTechnician && opts.AssigneeID == nil {
			id := actor.ID
			return &id, nil
		}
		if (actor.IsAdmin() || actor.Role == model.RoleManager) && opts.AssigneeID != nil {
			role, err := s.roleService.Resolve(ctx, *opts.AssigneeID)
			if err != nil {
				return nil, err
			}
			if role != model.RoleTechnician {
				return nil, domerr.ErrTechnicianRequired
			}
			return opts.AssigneeID, nil
		}
		return nil, domerr.ErrForbidden

	case model.RequestStatusInProgress, model.RequestStatusCompleted:
		if request.AssignedTechnicianID == nil || *request.AssignedTechnicianID != actor.ID {
			return nil, domerr.ErrForbidden
		}
		return nil, nil

	case model.RequestStatusCancelled:
		if request.UserID == actor.ID || actor.CanSeeAll() {
			return nil, nil
		}
		return nil, domerr.ErrForbidden

	default:
		return nil, domerr.ErrInvalidTransition
	}
}

func (s *requestService) transitionMessages(actor Actor, request *model.ServiceRequest, target model.RequestStatus, assignee *uuid.UUID) ([]model.OutboxMessage, error) {
	var messages []model.OutboxMessage

	add := func(userID uuid.UUID, title, body string, typ model.NotificationType) error {
		msg, err := outbox.NewNotificationMessage(userID, title, body, typ)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
		return nil
	}

	switch target {
	case model.RequestStatusAssigned:
		if err := add(request.UserID, "Request assigned",
			fmt.Sprintf("A technician was assigned to %q.", request.Title), model.NotificationInfo); err != nil {
			return nil, err
		}
		if assignee != nil && *assignee != actor.ID {
			if err := add(*assignee, "New assignment",
				fmt.Sprintf("You were assigned to %q.", request.Title), model.NotificationInfo); err != nil {
				return nil, err
			}
		}
	case model.RequestStatusInProgress:
		if err := add(request.UserID, "Work started",
			fmt.Sprintf("Work on %q is now in progress.", request.Title), model.NotificationInfo); err != nil {
			return nil, err
		}
	case model.RequestStatusCompleted:
		if err := add(request.UserID, "Request completed",
			fmt.Sprintf("%q was completed.", request.Title), model.NotificationSuccess); err != nil {
			return nil, err
		}
	case model.RequestStatusCancelled:
		if err := add(request.UserID, "Request cancelled",
			fmt.Sprintf("%q was cancelled.", request.Title), model.NotificationWarning); err != nil {
			return nil, err
		}
	}

	assigneeStr := ""
	if assignee != nil {
		assigneeStr = assignee.String()
	} else if request.AssignedTechnicianID != nil {
		assigneeStr = request.AssignedTechnicianID.String()
	}
	event, err := outbox.NewEventMessage(outbox.RoutingRequestStatus, outbox.StatusChangedPayload{
		RequestID:  request.ID,
		Title:      request.Title,
		FromStatus: string(request.Status),
		ToStatus:   string(target),
		ActorID:    actor.ID,
		AssigneeID: assigneeStr,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return append(messages, event), nil
}

func (s *requestService) canView(actor Actor, request *model.ServiceRequest) bool {
	if actor.CanSeeAll() {
		return true
	}
	if request.UserID == actor.ID {
		return true
	}
	if actor.Role == model.RoleTechnician {
		// Technicians may inspect the unclaimed pool and their own workload.
		if request.AssignedTechnicianID != nil {
			return *request.AssignedTechnicianID == actor.ID
		}
		return request.Status == model.RequestStatusPending
	}
	return false
}
