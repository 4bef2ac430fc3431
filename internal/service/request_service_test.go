package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// MockRoleService is a mock implementation of RoleService.
type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) Resolve(ctx context.Context, userID uuid.UUID) (model.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Role), args.Error(1)
}

func (m *MockRoleService) SetRole(ctx context.Context, actor Actor, userID uuid.UUID, role model.Role, specialty string) error {
	args := m.Called(ctx, actor, userID, role, specialty)
	return args.Error(0)
}

func newRequestServiceForTest(repo *MockServiceRequestRepository, roles *MockRoleService, set repository.Set) RequestService {
	return NewRequestService(repo, roles, &fakeUnitOfWork{repos: set})
}

func TestRequestService_Create(t *testing.T) {
	requester := Actor{ID: uuid.New(), Role: model.RoleUser}
	adminID := uuid.New()
	managerID := uuid.New()

	mockRepo := new(MockServiceRequestRepository)
	mockRoles := new(MockRoleRepository)
	mockActivity := new(MockActivityLogRepository)
	mockOutbox := new(MockOutboxRepository)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.ServiceRequest) bool {
		return r.Status == model.RequestStatusPending && r.UserID == requester.ID && r.Title == "Printer jam on floor 3"
	})).Return(nil)
	mockActivity.On("Create", mock.Anything, mock.MatchedBy(func(e *model.ActivityLog) bool {
		return e.Action == model.ActionCreateRequest && e.UserID == requester.ID
	})).Return(nil)
	mockRoles.On("ListUserIDsByRoles", mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
		Return([]uuid.UUID{adminID, managerID}, nil)
	mockOutbox.On("EnqueueBatch", mock.Anything, mock.MatchedBy(func(msgs []model.OutboxMessage) bool {
		return len(msgs) == 2
	})).Return(nil)

	service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{
		Requests: mockRepo,
		Roles:    mockRoles,
		Activity: mockActivity,
		Outbox:   mockOutbox,
	})

	request, err := service.Create(context.Background(), requester, CreateRequestInput{
		Title:   "Printer jam on floor 3",
		JobType: "repair",
	})

	assert.NoError(t, err)
	assert.NotNil(t, request)
	assert.Equal(t, model.RequestStatusPending, request.Status)
	assert.Equal(t, model.PriorityMedium, request.Priority)
	mockRepo.AssertExpectations(t)
	mockActivity.AssertExpectations(t)
	mockOutbox.AssertExpectations(t)
}

func TestRequestService_List_Scoping(t *testing.T) {
	t.Run("elevated sees everything", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		actor := Actor{ID: uuid.New(), Role: model.RoleCEO}
		mockRepo.On("List", mock.Anything, repository.RequestFilter{}).Return([]model.ServiceRequest{}, nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})
		_, err := service.List(context.Background(), actor, repository.RequestFilter{})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("technician sees pending pool plus own workload", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		actor := Actor{ID: uuid.New(), Role: model.RoleTechnician}
		mockRepo.On("ListForTechnician", mock.Anything, actor.ID).Return([]model.ServiceRequest{}, nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})
		_, err := service.List(context.Background(), actor, repository.RequestFilter{})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("regular user scoped to own rows", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		actor := Actor{ID: uuid.New(), Role: model.RoleUser}
		mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.RequestFilter) bool {
			return f.UserID != nil && *f.UserID == actor.ID
		})).Return([]model.ServiceRequest{}, nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})
		_, err := service.List(context.Background(), actor, repository.RequestFilter{})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestRequestService_Transition_Claim(t *testing.T) {
	technician := Actor{ID: uuid.New(), Role: model.RoleTechnician}
	requestID := uuid.New()
	requesterID := uuid.New()

	pending := func() *model.ServiceRequest {
		return &model.ServiceRequest{
			ID:     requestID,
			Title:  "Leaking valve",
			Status: model.RequestStatusPending,
			UserID: requesterID,
		}
	}

	t.Run("technician claims pending request", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockActivity := new(MockActivityLogRepository)
		mockOutbox := new(MockOutboxRepository)

		mockRepo.On("FindByID", mock.Anything, requestID).Return(pending(), nil)
		mockRepo.On("ClaimPending", mock.Anything, requestID, technician.ID).Return(int64(1), nil)
		mockActivity.On("Create", mock.Anything, mock.MatchedBy(func(e *model.ActivityLog) bool {
			return e.Action == model.ActionStatusChange &&
				e.FromStatus == "pending" && e.ToStatus == "assigned"
		})).Return(nil)
		mockOutbox.On("EnqueueBatch", mock.Anything, mock.AnythingOfType("[]model.OutboxMessage")).Return(nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{
			Requests: mockRepo,
			Activity: mockActivity,
			Outbox:   mockOutbox,
		})

		request, err := service.Transition(context.Background(), technician, requestID, model.RequestStatusAssigned, TransitionOptions{})

		assert.NoError(t, err)
		assert.Equal(t, model.RequestStatusAssigned, request.Status)
		assert.NotNil(t, request.AssignedTechnicianID)
		assert.Equal(t, technician.ID, *request.AssignedTechnicianID)
		mockRepo.AssertExpectations(t)
		mockActivity.AssertExpectations(t)
	})

	t.Run("lost race surfaces as conflict", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(pending(), nil)
		mockRepo.On("ClaimPending", mock.Anything, requestID, technician.ID).Return(int64(0), nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{
			Requests: mockRepo,
		})

		_, err := service.Transition(context.Background(), technician, requestID, model.RequestStatusAssigned, TransitionOptions{})

		assert.ErrorIs(t, err, domerr.ErrRequestConflict)
	})

	t.Run("regular user cannot claim", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(pending(), nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})

		_, err := service.Transition(context.Background(), Actor{ID: uuid.New(), Role: model.RoleUser}, requestID, model.RequestStatusAssigned, TransitionOptions{})

		assert.ErrorIs(t, err, domerr.ErrForbidden)
	})
}

func TestRequestService_Transition_AdminAssign(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}
	requestID := uuid.New()
	technicianID := uuid.New()

	pending := func() *model.ServiceRequest {
		return &model.ServiceRequest{ID: requestID, Status: model.RequestStatusPending, UserID: uuid.New()}
	}

	t.Run("assignee must hold the technician role", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockRoleService := new(MockRoleService)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(pending(), nil)
		mockRoleService.On("Resolve", mock.Anything, technicianID).Return(model.RoleSales, nil)

		service := newRequestServiceForTest(mockRepo, mockRoleService, repository.Set{})

		_, err := service.Transition(context.Background(), admin, requestID, model.RequestStatusAssigned, TransitionOptions{AssigneeID: &technicianID})

		assert.ErrorIs(t, err, domerr.ErrTechnicianRequired)
	})

	t.Run("admin assigns a technician", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockRoleService := new(MockRoleService)
		mockActivity := new(MockActivityLogRepository)
		mockOutbox := new(MockOutboxRepository)

		mockRepo.On("FindByID", mock.Anything, requestID).Return(pending(), nil)
		mockRoleService.On("Resolve", mock.Anything, technicianID).Return(model.RoleTechnician, nil)
		mockRepo.On("ClaimPending", mock.Anything, requestID, technicianID).Return(int64(1), nil)
		mockActivity.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)
		mockOutbox.On("EnqueueBatch", mock.Anything, mock.AnythingOfType("[]model.OutboxMessage")).Return(nil)

		service := newRequestServiceForTest(mockRepo, mockRoleService, repository.Set{
			Requests: mockRepo,
			Activity: mockActivity,
			Outbox:   mockOutbox,
		})

		request, err := service.Transition(context.Background(), admin, requestID, model.RequestStatusAssigned, TransitionOptions{AssigneeID: &technicianID})

		assert.NoError(t, err)
		assert.Equal(t, technicianID, *request.AssignedTechnicianID)
	})
}

func TestRequestService_Transition_Lifecycle(t *testing.T) {
	technicianID := uuid.New()
	requesterID := uuid.New()
	requestID := uuid.New()

	assigned := func() *model.ServiceRequest {
		return &model.ServiceRequest{
			ID:                   requestID,
			Status:               model.RequestStatusAssigned,
			UserID:               requesterID,
			AssignedTechnicianID: &technicianID,
		}
	}
	inProgress := func() *model.ServiceRequest {
		r := assigned()
		r.Status = model.RequestStatusInProgress
		return r
	}

	t.Run("only the assignee may start work", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(assigned(), nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})
		_, err := service.Transition(context.Background(), Actor{ID: uuid.New(), Role: model.RoleTechnician}, requestID, model.RequestStatusInProgress, TransitionOptions{})

		assert.ErrorIs(t, err, domerr.ErrForbidden)
	})

	t.Run("completion stamps the finish time", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockActivity := new(MockActivityLogRepository)
		mockOutbox := new(MockOutboxRepository)

		mockRepo.On("FindByID", mock.Anything, requestID).Return(inProgress(), nil)
		mockRepo.On("TransitionStatus", mock.Anything, requestID, model.RequestStatusInProgress, model.RequestStatusCompleted, mock.Anything).Return(int64(1), nil)
		mockActivity.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)
		mockOutbox.On("EnqueueBatch", mock.Anything, mock.AnythingOfType("[]model.OutboxMessage")).Return(nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{
			Requests: mockRepo,
			Activity: mockActivity,
			Outbox:   mockOutbox,
		})

		request, err := service.Transition(context.Background(), Actor{ID: technicianID, Role: model.RoleTechnician}, requestID, model.RequestStatusCompleted, TransitionOptions{})

		assert.NoError(t, err)
		assert.Equal(t, model.RequestStatusCompleted, request.Status)
		assert.NotNil(t, request.CompletedAt)
	})

	t.Run("completed request accepts no further transitions", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		completed := inProgress()
		completed.Status = model.RequestStatusCompleted
		mockRepo.On("FindByID", mock.Anything, requestID).Return(completed, nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})
		_, err := service.Transition(context.Background(), Actor{ID: technicianID, Role: model.RoleTechnician}, requestID, model.RequestStatusCancelled, TransitionOptions{})

		assert.ErrorIs(t, err, domerr.ErrInvalidTransition)
	})

	t.Run("requester cancels own assigned request", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockActivity := new(MockActivityLogRepository)
		mockOutbox := new(MockOutboxRepository)

		mockRepo.On("FindByID", mock.Anything, requestID).Return(assigned(), nil)
		mockRepo.On("TransitionStatus", mock.Anything, requestID, model.RequestStatusAssigned, model.RequestStatusCancelled, mock.Anything).Return(int64(1), nil)
		mockActivity.On("Create", mock.Anything, mock.AnythingOfType("*model.ActivityLog")).Return(nil)
		mockOutbox.On("EnqueueBatch", mock.Anything, mock.AnythingOfType("[]model.OutboxMessage")).Return(nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{
			Requests: mockRepo,
			Activity: mockActivity,
			Outbox:   mockOutbox,
		})

		request, err := service.Transition(context.Background(), Actor{ID: requesterID, Role: model.RoleUser}, requestID, model.RequestStatusCancelled, TransitionOptions{})

		assert.NoError(t, err)
		assert.Equal(t, model.RequestStatusCancelled, request.Status)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		mockRepo := new(MockServiceRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(assigned(), nil)

		service := newRequestServiceForTest(mockRepo, new(MockRoleService), repository.Set{})
		_, err := service.Transition(context.Background(), Actor{ID: uuid.New(), Role: model.RoleUser}, requestID, model.RequestStatusCancelled, TransitionOptions{})

		assert.ErrorIs(t, err, domerr.ErrForbidden)
	})
}
