package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"helmtest/internal/cli/logging"
	"helmtest/internal/cli/output"
	"helmtest/internal/core"

	"github.com/spf13/cobra"
)

var (
	configPath string
	properties []string
	verbose    bool
	logFile    string
	closeLog   = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "helmtest",
	Short: "Provisions Helm releases for integration tests on OpenShift",
	Long: `helmtest installs a Helm chart into a test namespace, waits until every
replica of the release is ready and removes it again when the tests are done.

Settings are read from .helmtest.yaml in the working directory (see --config)
and can be overridden with -D key=value. Properties named helm.set.<key> are
passed to helm as --set <key>=<value>.

Common workflows:
  helmtest up --values charts/helm.yaml --release my-app
  helmtest run --values charts/helm.yaml --release my-app -- go test ./e2e/...
  helmtest down my-app`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx, closeFn, err := logging.Setup(cmd.Context(), os.Stderr, logging.Options{
			Verbose: verbose,
			LogFile: logFile,
		})
		if err != nil {
			return err
		}
		closeLog = closeFn
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default "+core.DefaultSettingsFile+")")
	rootCmd.PersistentFlags().StringArrayVarP(&properties, "property", "D", nil, "property as key=value, may be repeated")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(exitCode(err))
	}
}

// exitCode passes on the exit status of a failed child process, such as the
// command given to run, and is 1 for everything else.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// settingsSource collects properties from the environment first and from -D
// flags second, so flags win.
func settingsSource() (core.SettingsSource, error) {
	collected := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, found := strings.Cut(entry, "=")
		if found && strings.Contains(key, ".") {
			collected[key] = value
		}
	}
	for _, property := range properties {
		key, value, found := strings.Cut(property, "=")
		if !found || key == "" {
			return core.SettingsSource{}, fmt.Errorf("property '%s' must be key=value", property)
		}
		collected[key] = value
	}
	return core.SettingsSource{
		ConfigPath: configPath,
		Properties: collected,
	}, nil
}
