package mocks

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendOTPEmailFunc           func(to, code string) error
	SendPasswordResetEmailFunc func(to, code string) error

	// SentCodes records every code handed to either send method, in order.
	SentCodes []string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendOTPEmail(to, code string) error {
	m.SentCodes = append(m.SentCodes, code)
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(to, code)
	}
	return nil
}

func (m *MockNotificationService) SendPasswordResetEmail(to, code string) error {
	m.SentCodes = append(m.SentCodes, code)
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(to, code)
	}
	return nil
}
