package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/us3rdie/yt-to-mp3/internal/storage"
	"github.com/us3rdie/yt-to-mp3/internal/utils"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove cached files older than the retention period and exit",
	Example: `  yt-to-mp3 sweep
  yt-to-mp3 sweep --older-than 72h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxAge := v.GetDuration("retention")
		if olderThan, _ := cmd.Flags().GetDuration("older-than"); olderThan > 0 {
			maxAge = olderThan
		}

		result, err := storage.Evict(v.GetString("cache_dir"), maxAge, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, removed %d, failed %d, freed %s\n",
			result.Scanned, result.Removed, result.Failed, utils.FormatBytes(result.FreedBytes))
		return nil
	},
}

func init() {
	sweepCmd.Flags().Duration("older-than", 0, "Override the retention period (env CACHE_RETENTION)")
}
