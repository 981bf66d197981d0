package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of store.Service
type MockStore struct {
	mock.Mock
}

// GetAllDomains mocks the GetAllDomains method of store.Service
func (m *MockStore) GetAllDomains(ctx context.Context) map[string]struct{} {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return map[string]struct{}{}
	}
	return args.Get(0).(map[string]struct{})
}

// UpsertDomain mocks the UpsertDomain method of store.Service
func (m *MockStore) UpsertDomain(ctx context.Context, domain, organization string) {
	m.Called(ctx, domain, organization)
}

// RemoveDomains mocks the RemoveDomains method of store.Service
func (m *MockStore) RemoveDomains(ctx context.Context, domains map[string]struct{}) {
	m.Called(ctx, domains)
}

// Count mocks the Count method of store.Service
func (m *MockStore) Count(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

// Close mocks the Close method of store.Service
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
