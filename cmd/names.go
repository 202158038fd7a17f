package cmd

import (
	"github.com/spf13/cobra"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Print the feature index contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeNames(cmd.OutOrStdout(), appConfig.Output.Format)
	},
}

func init() {
	rootCmd.AddCommand(namesCmd)
}
