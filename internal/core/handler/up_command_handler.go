package handler

import (
	"context"
	"fmt"

	"helmtest/internal/cli/output"
	"helmtest/internal/core"
	"helmtest/internal/ports"

	"github.com/chainguard-dev/clog"
)

type UpCommandHandler struct {
	fileSystem ports.FileSystem
	deps       core.ProvisioningDeps
}

func ProvideUpCommandHandler(
	fileSystem ports.FileSystem,
	deps core.ProvisioningDeps,
) UpCommandHandler {
	return UpCommandHandler{
		fileSystem: fileSystem,
		deps:       deps,
	}
}

// Handle provisions the release and leaves it running. The endpoint is
// printed when the release exposes one.
func (h *UpCommandHandler) Handle(ctx context.Context, request ReleaseRequest) error {
	output.PrintStep(fmt.Sprintf("Provisioning %s in %s", output.Bold(request.ReleaseName), output.Dim(h.deps.Cluster.Namespace())))

	manager, err := provision(ctx, h.fileSystem, h.deps, request)
	if err != nil {
		return err
	}

	endpoint, err := manager.RoutableEndpoint(ctx)
	if err != nil {
		clog.FromContext(ctx).Debug("endpoint lookup failed", "error", err)
		output.PrintWarning(fmt.Sprintf("Release '%s' exposes no route", manager.ReleaseName()))
		output.PrintSuccess(fmt.Sprintf("Release '%s' is ready", manager.ReleaseName()))
		return nil
	}
	output.PrintSuccess(fmt.Sprintf("Release '%s' is ready at %s", manager.ReleaseName(), endpoint))
	return nil
}
