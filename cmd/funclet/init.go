package funclet

import (
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "write the function registry file",
	Long:  `Write the function definitions, including overrides already loaded, to the registry file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := fnRegistry.Save(cmd.Context()); err != nil {
			logger.WithError(err).Fatal("failed to save function registry")
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
