package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of notifier.Service
type MockNotifier struct {
	mock.Mock
}

// SendToAdmins mocks the SendToAdmins method of notifier.Service
func (m *MockNotifier) SendToAdmins(ctx context.Context, text string) {
	m.Called(ctx, text)
}

// SendToSubscribers mocks the SendToSubscribers method of notifier.Service
func (m *MockNotifier) SendToSubscribers(ctx context.Context, text string) {
	m.Called(ctx, text)
}
