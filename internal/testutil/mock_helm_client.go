package testutil

import (
	"context"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.HelmClient = (*MockHelmClient)(nil)

type MockHelmClient struct {
	mock.Mock
}

func (m *MockHelmClient) Install(ctx context.Context, release domain.ReleaseConfig) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *MockHelmClient) Uninstall(ctx context.Context, release domain.ReleaseConfig) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}
