package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version задается при сборке через -ldflags "-X github.com/us3rdie/yt-to-mp3/cmd.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "yt-to-mp3 %s\n", Version)
	},
}
