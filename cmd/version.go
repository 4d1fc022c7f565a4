package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

const cliVersion = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the statement-recon version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("statement-recon %s (%s/%s)\n", cliVersion, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
