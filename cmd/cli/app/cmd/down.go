package cmd

import (
	"helmtest/cmd/cli/app"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(downCmd)
}

var downCmd = &cobra.Command{
	Use:   "down <release>",
	Short: "Uninstalls a release",
	Long:  `Uninstalls a release left running by 'helmtest up'. A release that does not exist is ignored.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectDownCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.Handle(cmd.Context(), args[0])
	},
}
