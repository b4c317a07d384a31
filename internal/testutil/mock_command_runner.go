package testutil

import (
	"context"

	"helmtest/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.CommandRunner = (*MockCommandRunner)(nil)

// MockCommandRunner provides a testify mock for ports.CommandRunner
type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	callArgs := m.Called(ctx, name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

func (m *MockCommandRunner) RunInteractive(ctx context.Context, env []string, name string, args ...string) error {
	callArgs := m.Called(ctx, env, name, args)
	return callArgs.Error(0)
}
