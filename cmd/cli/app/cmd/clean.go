package cmd

import (
	"helmtest/cmd/cli/app"

	"github.com/spf13/cobra"
)

var cleanKeep []string

func init() {
	cleanCmd.Flags().StringArrayVar(&cleanKeep, "keep", nil, "additional key=value label to keep, may be repeated")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes test resources from the namespace",
	Long: `Deletes workloads, services, routes, config maps, secrets and Helm release
records from the namespace, keeping objects labelled with a skip label.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectCleanCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.Handle(cmd.Context(), cleanKeep)
	},
}
