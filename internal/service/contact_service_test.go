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

// MockContactRepository is a mock implementation of ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *model.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, filter repository.ContactFilter) ([]model.Contact, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contact), args.Error(1)
}

func TestContactService_Create_Defaults(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: model.RoleUser}
	mockRepo := new(MockContactRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Contact) bool {
		return c.UserID == actor.ID && c.Status == model.ContactStatusLead
	})).Return(nil)

	service := NewContactService(mockRepo)
	contact, err := service.Create(context.Background(), actor, &model.Contact{Name: "Acme Corp"})

	assert.NoError(t, err)
	assert.Equal(t, model.ContactStatusLead, contact.Status)
	mockRepo.AssertExpectations(t)
}

func TestContactService_Scoping(t *testing.T) {
	owner := Actor{ID: uuid.New(), Role: model.RoleUser}
	contactID := uuid.New()
	record := func() *model.Contact {
		return &model.Contact{ID: contactID, Name: "Acme Corp", UserID: owner.ID}
	}

	t.Run("owner reads own contact", func(t *testing.T) {
		mockRepo := new(MockContactRepository)
		mockRepo.On("FindByID", mock.Anything, contactID).Return(record(), nil)

		service := NewContactService(mockRepo)
		contact, err := service.Get(context.Background(), owner, contactID)

		assert.NoError(t, err)
		assert.Equal(t, contactID, contact.ID)
	})

	t.Run("other user is rejected", func(t *testing.T) {
		mockRepo := new(MockContactRepository)
		mockRepo.On("FindByID", mock.Anything, contactID).Return(record(), nil)

		service := NewContactService(mockRepo)
		_, err := service.Get(context.Background(), Actor{ID: uuid.New(), Role: model.RoleUser}, contactID)

		assert.ErrorIs(t, err, domerr.ErrForbidden)
	})

	t.Run("sales works the whole book", func(t *testing.T) {
		mockRepo := new(MockContactRepository)
		mockRepo.On("FindByID", mock.Anything, contactID).Return(record(), nil)

		service := NewContactService(mockRepo)
		_, err := service.Get(context.Background(), Actor{ID: uuid.New(), Role: model.RoleSales}, contactID)

		assert.NoError(t, err)
	})

	t.Run("list scoped for regular users", func(t *testing.T) {
		mockRepo := new(MockContactRepository)
		mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.ContactFilter) bool {
			return f.UserID != nil && *f.UserID == owner.ID
		})).Return([]model.Contact{}, nil)

		service := NewContactService(mockRepo)
		_, err := service.List(context.Background(), owner, repository.ContactFilter{})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("list unscoped for sales", func(t *testing.T) {
		mockRepo := new(MockContactRepository)
		mockRepo.On("List", mock.Anything, repository.ContactFilter{}).Return([]model.Contact{}, nil)

		service := NewContactService(mockRepo)
		_, err := service.List(context.Background(), Actor{ID: uuid.New(), Role: model.RoleSales}, repository.ContactFilter{})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
