package ports

import (
	"context"

	"helmtest/internal/core/domain"
)

// HelmClient drives the helm package manager for a single release.
type HelmClient interface {
	// Install installs the release, replacing an existing release of the same name.
	Install(ctx context.Context, release domain.ReleaseConfig) error
	// Uninstall removes the release. A release that does not exist is not an error.
	Uninstall(ctx context.Context, release domain.ReleaseConfig) error
}
