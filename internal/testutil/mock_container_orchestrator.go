package testutil

import (
	"context"

	"helmtest/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.ContainerOrchestrator = (*MockContainerOrchestrator)(nil)

type MockContainerOrchestrator struct {
	mock.Mock
}

func (m *MockContainerOrchestrator) DesiredReplicas(ctx context.Context, workloadName string) (int32, error) {
	args := m.Called(ctx, workloadName)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockContainerOrchestrator) CountReadyPods(ctx context.Context, labelSelector string) (int, error) {
	args := m.Called(ctx, labelSelector)
	return args.Int(0), args.Error(1)
}

func (m *MockContainerOrchestrator) RouteHost(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockContainerOrchestrator) Namespace() string {
	return m.Called().String(0)
}

func (m *MockContainerOrchestrator) CleanNamespace(ctx context.Context, keepLabels []string) error {
	args := m.Called(ctx, keepLabels)
	return args.Error(0)
}
