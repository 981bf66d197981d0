package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMonitor is a mock implementation of monitor.Service
type MockMonitor struct {
	mock.Mock
}

// CheckForChanges mocks the CheckForChanges method of monitor.Service
func (m *MockMonitor) CheckForChanges(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// RunTestCycle mocks the RunTestCycle method of monitor.Service
func (m *MockMonitor) RunTestCycle(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// AddDomain mocks the AddDomain method of monitor.Service
func (m *MockMonitor) AddDomain(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

// RemoveDomain mocks the RemoveDomain method of monitor.Service
func (m *MockMonitor) RemoveDomain(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

// SeedIfEmpty mocks the SeedIfEmpty method of monitor.Service
func (m *MockMonitor) SeedIfEmpty(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
