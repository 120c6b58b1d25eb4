package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/marketauth/domain"
)

// MockTokenRepository implements domain.TokenRepository for testing
type MockTokenRepository struct {
	InsertFunc           func(ctx context.Context, token *domain.AccessToken) error
	FindActiveByHashFunc func(ctx context.Context, tokenHash string) (*domain.AccessToken, error)
	DeleteByHashFunc     func(ctx context.Context, tokenHash string) (bool, error)
	DeleteByUserFunc     func(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpiredFunc    func(ctx context.Context) (int64, error)
}

// NewMockTokenRepository creates a new MockTokenRepository with default behaviors
func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{}
}

func (m *MockTokenRepository) Insert(ctx context.Context, token *domain.AccessToken) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, token)
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return nil
}

func (m *MockTokenRepository) FindActiveByHash(ctx context.Context, tokenHash string) (*domain.AccessToken, error) {
	if m.FindActiveByHashFunc != nil {
		return m.FindActiveByHashFunc(ctx, tokenHash)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) (bool, error) {
	if m.DeleteByHashFunc != nil {
		return m.DeleteByHashFunc(ctx, tokenHash)
	}
	return false, nil
}

func (m *MockTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.DeleteByUserFunc != nil {
		return m.DeleteByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}
