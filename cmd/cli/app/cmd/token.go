package cmd

import (
	"helmtest/cmd/cli/app"

	"github.com/spf13/cobra"
)

var tokenNamespace string

func init() {
	tokenSetCmd.Flags().StringVarP(&tokenNamespace, "namespace", "n", "", "namespace the token belongs to (default from settings)")
	tokenClearCmd.Flags().StringVarP(&tokenNamespace, "namespace", "n", "", "namespace the token belongs to (default from settings)")
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the cluster token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Stores the cluster token in the OS keyring",
	Long: `Prompts for the token and stores it in the OS keyring. It is used whenever
openshift.token is not set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectTokenCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.HandleSet(tokenNamespace)
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Removes the cluster token from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := settingsSource()
		if err != nil {
			return err
		}
		handler, err := app.InjectTokenCommandHandler(source)
		if err != nil {
			return err
		}

		return handler.HandleClear(tokenNamespace)
	},
}
