package chatsync

import (
	"fmt"

	"github.com/sjzar/chatsync/pkg/version"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of chatsync",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chatsync %s\n", version.String())
	},
}
