//go:build wireinject
// +build wireinject

package app

import (
	"helmtest/internal/adapters/command_runner"
	"helmtest/internal/adapters/container_orchestrator"
	"helmtest/internal/adapters/filesystem"
	"helmtest/internal/adapters/keyring"
	"helmtest/internal/adapters/terminal"
	"helmtest/internal/core"
	"helmtest/internal/core/handler"
	"helmtest/internal/ports"

	"github.com/google/wire"
)

// Adapter provides everything that talks to the outside world except the cluster.
var Adapter = wire.NewSet(
	command_runner.ProvideOsCommandRunner,
	wire.Bind(new(ports.CommandRunner), new(*command_runner.OsCommandRunner)),
	filesystem.ProvideOsFileSystem,
	wire.Bind(new(ports.FileSystem), new(*filesystem.OsFileSystem)),
	keyring.ProvideZalandoKeyring,
	terminal.ProvideTerminalInput,
	wire.Bind(new(ports.TerminalInput), new(*terminal.TerminalInput)),
)

// ClusterSet provides the cluster adapters. It needs resolved settings.
var ClusterSet = wire.NewSet(
	container_orchestrator.ProvideHelmClient,
	wire.Bind(new(ports.HelmClient), new(*container_orchestrator.HelmClient)),
	container_orchestrator.ProvideKubernetes,
	wire.Bind(new(ports.ContainerOrchestrator), new(*container_orchestrator.Kubernetes)),
	wire.Bind(new(ports.PodReadinessCounter), new(*container_orchestrator.Kubernetes)),
)

// CoreSet provides settings and the provisioning flow
var CoreSet = wire.NewSet(
	core.ProvideFileSystemSettingsRepository,
	wire.Bind(new(core.SettingsRepository), new(*core.FileSystemSettingsRepository)),
	core.ProvideSettings,
	core.ProvidePodReadinessWaiter,
	wire.Bind(new(core.ReadinessWaiter), new(*core.PodReadinessWaiter)),
	wire.Struct(new(core.ProvisioningDeps), "*"),
)

// CommandHandlerSet combines all sets needed for command handlers
var CommandHandlerSet = wire.NewSet(
	Adapter,
	ClusterSet,
	CoreSet,
)

func InjectUpCommandHandler(source core.SettingsSource) (handler.UpCommandHandler, error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideUpCommandHandler,
	)
	return handler.UpCommandHandler{}, nil
}

func InjectRunCommandHandler(source core.SettingsSource) (handler.RunCommandHandler, error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideRunCommandHandler,
	)
	return handler.RunCommandHandler{}, nil
}

func InjectDownCommandHandler(source core.SettingsSource) (handler.DownCommandHandler, error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideDownCommandHandler,
	)
	return handler.DownCommandHandler{}, nil
}

func InjectCleanCommandHandler(source core.SettingsSource) (handler.CleanCommandHandler, error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideCleanCommandHandler,
	)
	return handler.CleanCommandHandler{}, nil
}

func InjectTokenCommandHandler(source core.SettingsSource) (handler.TokenCommandHandler, error) {
	wire.Build(
		Adapter,
		core.ProvideFileSystemSettingsRepository,
		wire.Bind(new(core.SettingsRepository), new(*core.FileSystemSettingsRepository)),
		handler.ProvideTokenCommandHandler,
	)
	return handler.TokenCommandHandler{}, nil
}

func InjectSettingsCommandHandler(source core.SettingsSource) (handler.SettingsCommandHandler, error) {
	wire.Build(
		Adapter,
		core.ProvideFileSystemSettingsRepository,
		wire.Bind(new(core.SettingsRepository), new(*core.FileSystemSettingsRepository)),
		handler.ProvideSettingsCommandHandler,
	)
	return handler.SettingsCommandHandler{}, nil
}
