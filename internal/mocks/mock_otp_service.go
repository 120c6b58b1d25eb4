package mocks

import (
	"context"

	"github.com/google/uuid"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	CreateAndSendFunc  func(ctx context.Context, userID uuid.UUID, email, purpose string) error
	VerifyFunc         func(ctx context.Context, userID uuid.UUID, code string) error
	CleanupExpiredFunc func(ctx context.Context) (int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) CreateAndSend(ctx context.Context, userID uuid.UUID, email, purpose string) error {
	if m.CreateAndSendFunc != nil {
		return m.CreateAndSendFunc(ctx, userID, email, purpose)
	}
	return nil
}

func (m *MockOTPService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, userID, code)
	}
	return nil
}

func (m *MockOTPService) CleanupExpired(ctx context.Context) (int64, error) {
	if m.CleanupExpiredFunc != nil {
		return m.CleanupExpiredFunc(ctx)
	}
	return 0, nil
}
