package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"servicedesk/internal/auth"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) StoreResetToken(ctx context.Context, token string, userID uuid.UUID) error {
	args := m.Called(ctx, token, userID)
	return args.Error(0)
}

func (m *MockTokenStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		firstName     string
		lastName      string
		setupMocks    func(*MockProfileRepository, *MockRoleRepository, *MockActivityLogRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "test@example.com",
			password:  "password123",
			firstName: "Test",
			lastName:  "User",
			setupMocks: func(profiles *MockProfileRepository, roles *MockRoleRepository, activity *MockActivityLogRepository) {
				profiles.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				profiles.On("Create", mock.Anything, mock.AnythingOfType("*model.Profile")).Return(nil)
				roles.On("Upsert", mock.Anything, mock.MatchedBy(func(a *model.RoleAssignment) bool {
					return a.Role == model.RoleUser
				})).Return(nil)
				activity.On("Create", mock.Anything, mock.MatchedBy(func(e *model.ActivityLog) bool {
					return e.Action == model.ActionSignUp
				})).Return(nil)
			},
		},
		{
			name:     "profile already exists",
			email:    "existing@example.com",
			password: "password123",
			setupMocks: func(profiles *MockProfileRepository, roles *MockRoleRepository, activity *MockActivityLogRepository) {
				profiles.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.Profile{Email: "existing@example.com"}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProfiles := new(MockProfileRepository)
			mockRoles := new(MockRoleRepository)
			mockActivity := new(MockActivityLogRepository)
			tt.setupMocks(mockProfiles, mockRoles, mockActivity)

			uow := &fakeUnitOfWork{repos: repository.Set{
				Profiles: mockProfiles,
				Roles:    mockRoles,
				Activity: mockActivity,
			}}
			roleService := NewRoleService(mockRoles, uow, nil)
			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockProfiles, roleService, uow, jwtService, new(MockTokenStore))

			profile, err := service.Register(context.Background(), tt.email, tt.password, tt.firstName, tt.lastName)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, profile)
				assert.Equal(t, tt.email, profile.Email)
				assert.Equal(t, tt.firstName, profile.FirstName)
				assert.NotEmpty(t, profile.PasswordHash)
			}

			mockProfiles.AssertExpectations(t)
			mockRoles.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	profileID := uuid.New()

	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(*MockProfileRepository, *MockRoleRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMocks: func(profiles *MockProfileRepository, roles *MockRoleRepository, tokens *MockTokenStore) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				profiles.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.Profile{
					ID:           profileID,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
				roles.On("FindByUserID", mock.Anything, profileID).Return(&model.RoleAssignment{
					UserID: profileID,
					Role:   model.RoleUser,
				}, nil)
				tokens.On("StoreRefreshToken", mock.Anything, mock.Anything, profileID, "test@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMocks: func(profiles *MockProfileRepository, roles *MockRoleRepository, tokens *MockTokenStore) {
				profiles.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMocks: func(profiles *MockProfileRepository, roles *MockRoleRepository, tokens *MockTokenStore) {
				hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				profiles.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.Profile{
					ID:           profileID,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProfiles := new(MockProfileRepository)
			mockRoles := new(MockRoleRepository)
			mockTokens := new(MockTokenStore)
			tt.setupMocks(mockProfiles, mockRoles, mockTokens)

			uow := &fakeUnitOfWork{repos: repository.Set{}}
			roleService := NewRoleService(mockRoles, uow, nil)
			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockProfiles, roleService, uow, jwtService, mockTokens)

			accessToken, refreshToken, profile, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, profile)

				claims, err := jwtService.ValidateToken(accessToken)
				assert.NoError(t, err)
				assert.Equal(t, profileID.String(), claims.UserID)
				assert.Equal(t, string(model.RoleUser), claims.Role)
			}

			mockProfiles.AssertExpectations(t)
			mockTokens.AssertExpectations(t)
		})
	}
}
