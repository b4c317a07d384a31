package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"helmtest/internal/cli/output"
	"helmtest/internal/core"
	"helmtest/internal/ports"

	"github.com/chainguard-dev/clog"
)

const (
	EnvEndpoint = "HELMTEST_ENDPOINT"
	EnvRelease  = "HELMTEST_RELEASE"
)

type RunCommandHandler struct {
	fileSystem    ports.FileSystem
	commandRunner ports.CommandRunner
	deps          core.ProvisioningDeps
}

func ProvideRunCommandHandler(
	fileSystem ports.FileSystem,
	commandRunner ports.CommandRunner,
	deps core.ProvisioningDeps,
) RunCommandHandler {
	return RunCommandHandler{
		fileSystem:    fileSystem,
		commandRunner: commandRunner,
		deps:          deps,
	}
}

// Handle provisions the release, runs command against it and tears the
// release down afterwards, whatever the command's outcome.
func (h *RunCommandHandler) Handle(ctx context.Context, request ReleaseRequest, command []string) (err error) {
	if len(command) == 0 {
		return fmt.Errorf("no command to run against release %s", request.ReleaseName)
	}

	manager, err := provision(ctx, h.fileSystem, h.deps, request)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := manager.Close(ctx); closeErr != nil {
			err = errors.Join(err, closeErr)
			return
		}
		output.PrintSecondary(fmt.Sprintf("Release '%s' removed", manager.ReleaseName()))
	}()

	env := []string{EnvRelease + "=" + manager.ReleaseName()}
	endpoint, endpointErr := manager.RoutableEndpoint(ctx)
	if endpointErr != nil {
		clog.FromContext(ctx).Warn("release has no endpoint", "error", endpointErr)
	} else {
		env = append(env, EnvEndpoint+"="+endpoint.String())
	}

	output.PrintStep(fmt.Sprintf("Running %s", output.Bold(strings.Join(command, " "))))
	if err := h.commandRunner.RunInteractive(ctx, env, command[0], command[1:]...); err != nil {
		return fmt.Errorf("command '%s' failed: %w", command[0], err)
	}
	return nil
}
