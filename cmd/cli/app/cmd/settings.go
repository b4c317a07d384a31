package cmd

import (
	"helmtest/cmd/cli/app"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Shows the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectSettingsCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.Handle()
	},
}
