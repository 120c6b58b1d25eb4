package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/marketauth/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	tokenTTL    time.Duration
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	tokenTTL time.Duration,
	logger *zap.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// Register implements domain.AuthService. The user row and the role-matched
// profile-extension row are created in one transaction.
func (s *AuthServiceImpl) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	switch input.Role {
	case domain.RoleCustomer, domain.RoleBusinessOwner, domain.RoleAdmin:
	default:
		return nil, domain.ErrInvalidRole
	}

	if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyRegistered
	}

	if input.Phone != nil {
		if existing, err := s.userRepo.FindByPhone(ctx, *input.Phone); err == nil && existing != nil {
			return nil, domain.ErrPhoneAlreadyRegistered
		}
	}

	if input.Role != domain.RoleBusinessOwner && input.HaveSubscription != nil {
		return nil, domain.ErrSubscriptionNotAllowed
	}

	hashedPassword, err := s.passwordSvc.Hash(input.Password)
	if err != nil {
		if err == domain.ErrPasswordTooLong {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Role:         input.Role,
		IsVerified:   false,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		Country:      input.Country,
		Picture:      input.Picture,
		Gender:       input.Gender,
	}

	var customer *domain.CustomerProfile
	var business *domain.BusinessProfile
	switch input.Role {
	case domain.RoleCustomer:
		customer = &domain.CustomerProfile{}
	case domain.RoleBusinessOwner:
		haveSubscription := false
		if input.HaveSubscription != nil {
			haveSubscription = *input.HaveSubscription
		}
		business = &domain.BusinessProfile{HaveSubscription: haveSubscription}
	}
	// Admins get no profile-extension row.

	if err := s.userRepo.CreateWithProfile(ctx, user, customer, business); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", user.Role))
	return user, nil
}

// Login implements domain.AuthService. Unknown email and wrong password
// produce the identical error so account existence is never revealed.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string, client domain.ClientInfo) (*domain.LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	plaintext, err := s.tokenSvc.Issue(ctx, user.ID, client, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last_login",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.LastLogin = &now

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return &domain.LoginResult{
		User:        user,
		AccessToken: plaintext,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService. Revoking an unknown or already
// revoked token is not an error.
func (s *AuthServiceImpl) Logout(ctx context.Context, plaintext string) error {
	found, err := s.tokenSvc.Revoke(ctx, plaintext)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if !found {
		s.logger.Debug("logout for unknown token; no record found")
	}
	return nil
}

// LogoutAll implements domain.AuthService (logout from all devices)
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.tokenSvc.RevokeAll(ctx, userID)
}

// ResetPassword implements domain.AuthService. Existing tokens for the user
// stay valid; callers wanting a clean slate use LogoutAll.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		if err == domain.ErrPasswordTooLong {
			return err
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password reset", zap.String("user_id", userID.String()))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
