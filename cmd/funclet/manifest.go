package funclet

import (
	"github.com/nyambati/funclet/internal/manifest"
	"github.com/spf13/cobra"
)

var manifestOut string

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "write host.json and function.json files",
	Run: func(cmd *cobra.Command, args []string) {
		written, err := manifest.Write(cmd.Context(), manifestOut, cfg.Worker.Executable, fnRegistry, logger.WithField("component", "manifest"))
		if err != nil {
			logger.WithError(err).Fatal("failed to write manifest")
		}
		for _, path := range written {
			cmd.Println(path)
		}
	},
}

func init() {
	manifestCmd.Flags().StringVarP(&manifestOut, "out", "o", ".", "output directory")
	rootCmd.AddCommand(manifestCmd)
}
