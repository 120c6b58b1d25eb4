package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/marketauth/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, input domain.RegisterInput) (*domain.User, error)
	LoginFunc          func(ctx context.Context, email, password string, client domain.ClientInfo) (*domain.LoginResult, error)
	LogoutFunc         func(ctx context.Context, plaintext string) error
	LogoutAllFunc      func(ctx context.Context, userID uuid.UUID) (int64, error)
	ResetPasswordFunc  func(ctx context.Context, userID uuid.UUID, newPassword string) error
	GetUserProfileFunc func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return &domain.User{ID: uuid.New(), Email: input.Email, Role: input.Role}, nil
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, client domain.ClientInfo) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, client)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) Logout(ctx context.Context, plaintext string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, plaintext)
	}
	return nil
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, userID, newPassword)
	}
	return nil
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}
