package handler

import (
	"context"

	"helmtest/internal/core"
	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
)

// ReleaseRequest is what the up and run commands need to provision a release.
type ReleaseRequest struct {
	ArtifactDir string
	ValuesFile  string
	ReleaseName string
	Chart       string
	Overrides   []domain.OverrideEntry
	SkipClean   bool
}

func buildReleaseConfig(
	fileSystem ports.FileSystem,
	settings *domain.Settings,
	request ReleaseRequest,
) (domain.ReleaseConfig, error) {
	builder := core.NewReleaseConfigBuilderFromSettings(fileSystem, settings, request.ArtifactDir, request.ReleaseName).
		ValuesFile(request.ValuesFile)
	if request.Chart != "" {
		builder.Chart(request.Chart)
	}
	for _, override := range request.Overrides {
		builder.AddOverride(override.Key, override.Value)
	}
	return builder.Build()
}

func provision(
	ctx context.Context,
	fileSystem ports.FileSystem,
	deps core.ProvisioningDeps,
	request ReleaseRequest,
) (*core.ProvisioningManager, error) {
	config, err := buildReleaseConfig(fileSystem, deps.Settings, request)
	if err != nil {
		return nil, err
	}
	var opts []core.ProvisioningOption
	if request.SkipClean {
		opts = append(opts, core.WithSkipClean())
	}
	return core.BuildAndInitialise(ctx, config, deps, opts...)
}
