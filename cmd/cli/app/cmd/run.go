package cmd

import (
	"helmtest/cmd/cli/app"

	"github.com/spf13/cobra"
)

var runFlags releaseFlags

func init() {
	runFlags.register(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Runs a command against a freshly installed release",
	Long: `Installs the release, runs the command with HELMTEST_RELEASE and
HELMTEST_ENDPOINT set and removes the release afterwards, also when the
command fails or helmtest is interrupted.`,
	Example: `  helmtest run -f charts/helm.yaml -r my-app -- go test ./e2e/...`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := runFlags.request()
		if err != nil {
			return err
		}
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectRunCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.Handle(cmd.Context(), request, args)
	},
}
