package handler

import (
	"context"
	"fmt"
	"slices"

	"helmtest/internal/cli/output"
	"helmtest/internal/core/domain"
	"helmtest/internal/ports"
)

type CleanCommandHandler struct {
	cluster  ports.NamespaceCleaner
	settings *domain.Settings
}

func ProvideCleanCommandHandler(
	cluster ports.ContainerOrchestrator,
	settings *domain.Settings,
) CleanCommandHandler {
	return CleanCommandHandler{
		cluster:  cluster,
		settings: settings,
	}
}

// Handle resets the namespace, keeping objects labelled with the configured
// skip labels or any of keep.
func (h *CleanCommandHandler) Handle(ctx context.Context, keep []string) error {
	labels := slices.Concat(h.settings.SkipCleanLabels, keep)
	if err := domain.ValidateSkipCleanLabels(labels); err != nil {
		return err
	}

	namespace := h.cluster.Namespace()
	output.PrintStep(fmt.Sprintf("Cleaning namespace %s", output.Bold(namespace)))
	if err := h.cluster.CleanNamespace(ctx, labels); err != nil {
		return fmt.Errorf("failed to clean namespace %s: %w", namespace, err)
	}
	output.PrintSuccess(fmt.Sprintf("Namespace '%s' is clean", namespace))
	return nil
}
