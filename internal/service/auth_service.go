package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"servicedesk/internal/auth"
	"servicedesk/internal/model"
	"servicedesk/internal/outbox"
	"servicedesk/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidResetToken is returned when a password reset token is unknown or spent.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, profile *model.Profile, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) (token string, err error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type authService struct {
	profileRepo repository.ProfileRepository
	roleService RoleService
	uow         repository.UnitOfWork
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	profileRepo repository.ProfileRepository,
	roleService RoleService,
	uow repository.UnitOfWork,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		profileRepo: profileRepo,
		roleService: roleService,
		uow:         uow,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// Register creates the profile, its default role assignment, and a sign-up
// activity entry in one transaction. A failure anywhere rolls everything
// back, so no half-created identity is ever observable.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*model.Profile, error) {
	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		if err := repos.Profiles.Create(ctx, profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		if err := repos.Roles.Upsert(ctx, &model.RoleAssignment{
			UserID: profile.ID,
			Role:   model.RoleUser,
		}); err != nil {
			return fmt.Errorf("assign default role: %w", err)
		}
		return repos.Activity.Create(ctx, &model.ActivityLog{
			UserID:      profile.ID,
			Action:      model.ActionSignUp,
			Description: "account created",
			EntityType:  "profile",
			EntityID:    profile.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// Login authenticates a profile and returns access and refresh tokens. The
// access token carries the role resolved at issue time.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.Profile, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	role, err := s.roleService.Resolve(ctx, profile.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("resolve role: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email, role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID, profile.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, profile, nil
}

// RefreshToken validates a refresh token and returns a new access token with
// the role re-resolved from the store, so role changes propagate here.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID.String() != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	role, err := s.roleService.Resolve(ctx, storedUserID)
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(storedUserID, storedEmail, role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// RequestPasswordReset issues a one-time reset token and queues a
// notification for the account owner. An unknown email returns an empty
// token and no error, so the endpoint does not leak which emails exist.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find profile: %w", err)
	}

	token := uuid.New().String()
	if err := s.tokenStore.StoreResetToken(ctx, token, profile.ID); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	msg, err := outbox.NewNotificationMessage(profile.ID,
		"Password reset requested",
		"A password reset was requested for your account. If this was not you, you can ignore this message.",
		model.NotificationWarning)
	if err != nil {
		return "", err
	}
	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		return repos.Outbox.Enqueue(ctx, &msg)
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConfirmPasswordReset consumes the token and rehashes the password.
func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find profile: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	profile.PasswordHash = string(hashedPassword)
	return s.profileRepo.Update(ctx, profile)
}
