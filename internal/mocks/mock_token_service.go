package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/you/marketauth/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueFunc        func(ctx context.Context, userID uuid.UUID, client domain.ClientInfo, ttl time.Duration) (string, error)
	ValidateFunc     func(ctx context.Context, plaintext string, client domain.ClientInfo) (*domain.User, error)
	RevokeFunc       func(ctx context.Context, plaintext string) (bool, error)
	RevokeAllFunc    func(ctx context.Context, userID uuid.UUID) (int64, error)
	SweepExpiredFunc func(ctx context.Context) (int64, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(ctx context.Context, userID uuid.UUID, client domain.ClientInfo, ttl time.Duration) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID, client, ttl)
	}
	return "mk_test_token", nil
}

func (m *MockTokenService) Validate(ctx context.Context, plaintext string, client domain.ClientInfo) (*domain.User, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, plaintext, client)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) Revoke(ctx context.Context, plaintext string) (bool, error) {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, plaintext)
	}
	return true, nil
}

func (m *MockTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockTokenService) SweepExpired(ctx context.Context) (int64, error) {
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx)
	}
	return 0, nil
}
