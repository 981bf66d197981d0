package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of fetcher.Service
type MockFetcher struct {
	mock.Mock
}

// Fetch mocks the Fetch method of fetcher.Service
func (m *MockFetcher) Fetch(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

// MockSourceEditor is a mock implementation of fetcher.SourceEditor
type MockSourceEditor struct {
	mock.Mock
}

// Append mocks the Append method of fetcher.SourceEditor
func (m *MockSourceEditor) Append(domain string) error {
	args := m.Called(domain)
	return args.Error(0)
}

// Remove mocks the Remove method of fetcher.SourceEditor
func (m *MockSourceEditor) Remove(domain string) error {
	args := m.Called(domain)
	return args.Error(0)
}
