package container_orchestrator

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"helmtest/internal/core/domain"
	"helmtest/internal/ports"

	"github.com/chainguard-dev/clog"
	"helm.sh/helm/v3/pkg/storage/driver"
)

var _ ports.HelmClient = (*HelmClient)(nil)

// HelmClient implements ports.HelmClient using the helm CLI.
type HelmClient struct {
	commandRunner ports.CommandRunner
	binary        string
}

// ProvideHelmClient creates a HelmClient for Wire dependency injection.
func ProvideHelmClient(runner ports.CommandRunner, settings *domain.Settings) *HelmClient {
	binary := settings.HelmBinary
	if binary == "" {
		binary = domain.DefaultHelmBinary
	}
	return &HelmClient{
		commandRunner: runner,
		binary:        binary,
	}
}

// Install installs the release with --replace so a leftover release of the
// same name is reinstalled instead of failing the run.
func (h *HelmClient) Install(ctx context.Context, release domain.ReleaseConfig) error {
	log := clog.FromContext(ctx).With("release", release.ReleaseName, "chart", release.ChartReference)

	cmdArgs := []string{
		"install",
		release.ReleaseName,
		release.ChartReference,
		"--replace",
		"-f", release.ValuesFilePath,
	}
	for _, override := range release.Overrides {
		cmdArgs = append(cmdArgs, "--set", override.String())
	}
	cmdArgs = appendClusterArgs(cmdArgs, release)
	// Charts cloned from a repository may declare non-local dependencies.
	cmdArgs = append(cmdArgs, "--dependency-update")
	if release.Debug {
		cmdArgs = append(cmdArgs, "--debug")
	}

	log.Info("installing helm release", "overrides", len(release.Overrides))
	output, err := h.commandRunner.Run(ctx, h.binary, cmdArgs...)
	if err != nil {
		return newDeployError("install", release.ReleaseName, output, err)
	}
	log.Debug("helm install finished", "output", strings.TrimSpace(string(output)))
	return nil
}

// Uninstall removes the release. Cleanup may run after a failed install, so a
// release that was never created is logged and tolerated.
func (h *HelmClient) Uninstall(ctx context.Context, release domain.ReleaseConfig) error {
	log := clog.FromContext(ctx).With("release", release.ReleaseName)

	cmdArgs := appendClusterArgs([]string{"uninstall", release.ReleaseName}, release)

	log.Info("uninstalling helm release")
	output, err := h.commandRunner.Run(ctx, h.binary, cmdArgs...)
	if err != nil {
		if isReleaseNotFound(output) {
			log.Warn("helm release not found, nothing to uninstall")
			return nil
		}
		return newDeployError("uninstall", release.ReleaseName, output, err)
	}
	return nil
}

func appendClusterArgs(cmdArgs []string, release domain.ReleaseConfig) []string {
	if release.KubeconfigPath != "" {
		cmdArgs = append(cmdArgs, "--kubeconfig", release.KubeconfigPath)
	}
	if release.Namespace != "" {
		cmdArgs = append(cmdArgs, "--namespace", release.Namespace)
	}
	return cmdArgs
}

func isReleaseNotFound(output []byte) bool {
	return strings.Contains(string(output), driver.ErrReleaseNotFound.Error())
}

func newDeployError(action, releaseName string, output []byte, err error) *domain.DeployError {
	deployErr := &domain.DeployError{
		Action:  action,
		Release: releaseName,
		Output:  string(output),
		Err:     err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		deployErr.ExitCode = exitErr.ExitCode()
	}
	return deployErr
}
