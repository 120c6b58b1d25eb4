package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/marketauth/domain"
)

// MockOTPRepository implements domain.OTPRepository for testing
type MockOTPRepository struct {
	InsertFunc            func(ctx context.Context, otp *domain.OneTimePasscode) error
	FindActiveByUserFunc  func(ctx context.Context, userID uuid.UUID) (*domain.OneTimePasscode, error)
	IncrementAttemptsFunc func(ctx context.Context, id uuid.UUID) error
	MarkUsedFunc          func(ctx context.Context, id uuid.UUID) error
	DeleteExpiredFunc     func(ctx context.Context) (int64, error)
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

func (m *MockOTPRepository) Insert(ctx context.Context, otp *domain.OneTimePasscode) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, otp)
	}
	if otp.ID == uuid.Nil {
		otp.ID = uuid.New()
	}
	return nil
}

func (m *MockOTPRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.OneTimePasscode, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, userID)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockOTPRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, id)
	}
	return nil
}

func (m *MockOTPRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, id)
	}
	return nil
}

func (m *MockOTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}
