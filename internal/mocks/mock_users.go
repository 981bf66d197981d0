package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockUsers is a mock implementation of users.Service
type MockUsers struct {
	mock.Mock
}

// Add mocks the Add method of users.Service
func (m *MockUsers) Add(userID int64) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

// Remove mocks the Remove method of users.Service
func (m *MockUsers) Remove(userID int64) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

// List mocks the List method of users.Service
func (m *MockUsers) List() []int64 {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]int64)
}

// Count mocks the Count method of users.Service
func (m *MockUsers) Count() int {
	args := m.Called()
	return args.Int(0)
}
