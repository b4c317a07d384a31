package cmd

import (
	"helmtest/cmd/cli/app"

	"github.com/spf13/cobra"
)

var upFlags releaseFlags

func init() {
	upFlags.register(upCmd)
	rootCmd.AddCommand(upCmd)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Installs a release and waits until it is ready",
	Long: `Installs the chart as the given release, waits until all replicas are ready
and prints the route of the release. The release is left running; remove it
with 'helmtest down'. If the release does not become ready it is removed.`,
	Example: `  helmtest up --values charts/helm.yaml --release my-app
  helmtest up -f charts/helm.yaml -r my-app --set image.tag=1.2.3 -D openshift.namespace=qe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := upFlags.request()
		if err != nil {
			return err
		}
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectUpCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.Handle(cmd.Context(), request)
	},
}
