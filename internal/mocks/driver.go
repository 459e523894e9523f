// Package mocks provides shared testify mocks for cross-package tests.
package mocks

import (
	"context"
	"io/fs"

	"github.com/stretchr/testify/mock"

	"github.com/bridgefs/bridgefs"
)

// MockDriver implements bridgefs.Driver for testing across packages
type MockDriver struct {
	mock.Mock
}

var _ bridgefs.Driver = (*MockDriver)(nil)

func (m *MockDriver) Stat(ctx context.Context, path string) (*bridgefs.Stats, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bridgefs.Stats), args.Error(1)
}

func (m *MockDriver) ReadFile(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDriver) WriteFile(ctx context.Context, path string, data []byte) error {
	args := m.Called(ctx, path, data)
	return args.Error(0)
}

func (m *MockDriver) ReadDir(ctx context.Context, path string) ([]string, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDriver) Mkdir(ctx context.Context, path string, mode fs.FileMode) error {
	args := m.Called(ctx, path, mode)
	return args.Error(0)
}

func (m *MockDriver) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockDriver) Rename(ctx context.Context, oldPath, newPath string) error {
	args := m.Called(ctx, oldPath, newPath)
	return args.Error(0)
}

func (m *MockDriver) Trash(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
