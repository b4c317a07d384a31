package handler

import (
	"context"
	"fmt"

	"helmtest/internal/cli/output"
	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
)

type DownCommandHandler struct {
	helm     ports.HelmClient
	settings *domain.Settings
}

func ProvideDownCommandHandler(
	helm ports.HelmClient,
	settings *domain.Settings,
) DownCommandHandler {
	return DownCommandHandler{
		helm:     helm,
		settings: settings,
	}
}

// Handle uninstalls a release left running by up. A release that does not
// exist is not an error.
func (h *DownCommandHandler) Handle(ctx context.Context, releaseName string) error {
	if releaseName == "" {
		return domain.NewConfigurationError("release name must not be empty")
	}
	release := domain.ReleaseConfig{
		ReleaseName:    releaseName,
		KubeconfigPath: h.settings.KubeconfigPath,
		Namespace:      h.settings.Namespace,
		Debug:          h.settings.Debug,
	}
	if err := h.helm.Uninstall(ctx, release); err != nil {
		return err
	}
	output.PrintSuccess(fmt.Sprintf("Release '%s' removed", releaseName))
	return nil
}
