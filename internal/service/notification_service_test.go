package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

func newNotificationServiceForTest(
	notifications *MockNotificationRepository,
	roles *MockRoleRepository,
	profiles *MockProfileRepository,
	outboxRepo *MockOutboxRepository,
) NotificationService {
	uow := &fakeUnitOfWork{repos: repository.Set{Outbox: outboxRepo}}
	return NewNotificationService(notifications, roles, profiles, uow)
}

func TestNotificationService_NotifyRoles(t *testing.T) {
	adminID := uuid.New()
	managerID := uuid.New()

	mockRoles := new(MockRoleRepository)
	mockOutbox := new(MockOutboxRepository)
	mockRoles.On("ListUserIDsByRoles", mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
		Return([]uuid.UUID{adminID, managerID}, nil)
	mockOutbox.On("EnqueueBatch", mock.Anything, mock.MatchedBy(func(msgs []model.OutboxMessage) bool {
		return len(msgs) == 2 && msgs[0].Kind == model.OutboxKindNotification
	})).Return(nil)

	service := newNotificationServiceForTest(new(MockNotificationRepository), mockRoles, new(MockProfileRepository), mockOutbox)

	err := service.NotifyRoles(context.Background(),
		[]model.Role{model.RoleAdmin, model.RoleManager},
		"Maintenance window", "The system restarts at 02:00.", model.NotificationWarning)

	assert.NoError(t, err)
	mockRoles.AssertExpectations(t)
	mockOutbox.AssertExpectations(t)
}

func TestNotificationService_Broadcast(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	mockProfiles := new(MockProfileRepository)
	mockOutbox := new(MockOutboxRepository)
	mockProfiles.On("ListIDs", mock.Anything).Return(ids, nil)
	mockOutbox.On("EnqueueBatch", mock.Anything, mock.MatchedBy(func(msgs []model.OutboxMessage) bool {
		return len(msgs) == len(ids)
	})).Return(nil)

	service := newNotificationServiceForTest(new(MockNotificationRepository), new(MockRoleRepository), mockProfiles, mockOutbox)

	err := service.Broadcast(context.Background(), "Welcome", "The portal is live.", model.NotificationInfo)

	assert.NoError(t, err)
	mockProfiles.AssertExpectations(t)
	mockOutbox.AssertExpectations(t)
}

func TestNotificationService_MarkRead(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()

	tests := []struct {
		name          string
		setupMock     func(*MockNotificationRepository)
		expectedError error
	}{
		{
			name: "unread notification marked",
			setupMock: func(m *MockNotificationRepository) {
				m.On("MarkRead", mock.Anything, notificationID, userID).Return(int64(1), nil)
			},
		},
		{
			name: "already read is a no-op",
			setupMock: func(m *MockNotificationRepository) {
				m.On("MarkRead", mock.Anything, notificationID, userID).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, notificationID).Return(&model.Notification{
					ID:     notificationID,
					UserID: userID,
					Read:   true,
				}, nil)
			},
		},
		{
			name: "someone else's notification rejected",
			setupMock: func(m *MockNotificationRepository) {
				m.On("MarkRead", mock.Anything, notificationID, userID).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, notificationID).Return(&model.Notification{
					ID:     notificationID,
					UserID: uuid.New(),
				}, nil)
			},
			expectedError: domerr.ErrForbidden,
		},
		{
			name: "missing notification",
			setupMock: func(m *MockNotificationRepository) {
				m.On("MarkRead", mock.Anything, notificationID, userID).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, notificationID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: domerr.ErrNotificationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockNotificationRepository)
			tt.setupMock(mockRepo)

			service := newNotificationServiceForTest(mockRepo, new(MockRoleRepository), new(MockProfileRepository), new(MockOutboxRepository))
			err := service.MarkRead(context.Background(), userID, notificationID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
