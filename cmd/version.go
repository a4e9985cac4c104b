package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the factwing version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("factwing %s\n", GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
