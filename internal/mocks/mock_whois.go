package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockWhois is a mock implementation of whois.Service
type MockWhois struct {
	mock.Mock
}

// Resolve mocks the Resolve method of whois.Service
func (m *MockWhois) Resolve(ctx context.Context, domain string) string {
	args := m.Called(ctx, domain)
	return args.String(0)
}

// MockWhoisCache is a mock implementation of whoisCache.Service
type MockWhoisCache struct {
	mock.Mock
}

// Get mocks the Get method of whoisCache.Service
func (m *MockWhoisCache) Get(ctx context.Context, domain string) (string, error) {
	args := m.Called(ctx, domain)
	return args.String(0), args.Error(1)
}

// Set mocks the Set method of whoisCache.Service
func (m *MockWhoisCache) Set(ctx context.Context, domain, organization string) error {
	args := m.Called(ctx, domain, organization)
	return args.Error(0)
}

// Delete mocks the Delete method of whoisCache.Service
func (m *MockWhoisCache) Delete(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}
