package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/qsim/pkg/client"
)

func itoa(n int) string { return strconv.Itoa(n) }

// CacheStatsView is what `qsim cache stats` prints.
type CacheStatsView struct {
	*client.CacheStats
}

func (v *CacheStatsView) String() string {
	if v.Message != "" {
		return v.Message
	}
	return fmt.Sprintf("%d entries, %d bytes", v.Entries, v.StorageSizeBytes)
}

func (v *CacheStatsView) TableHeaders() []string {
	return []string{"ENTRIES", "STORAGE_BYTES"}
}

func (v *CacheStatsView) TableRows() [][]string {
	return [][]string{{
		strconv.FormatInt(v.Entries, 10),
		strconv.FormatInt(v.StorageSizeBytes, 10),
	}}
}

// NewCacheCmd groups the result cache commands.  They talk to a running
// server so they see the same store it does.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the server's result cache",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCacheClearCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show result cache entry count and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			c, err := cliCtx.remoteClient()
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			stats, err := c.CacheStats(ctx)
			if err != nil {
				return err
			}
			return PrintResult(cmd, &CacheStatsView{CacheStats: stats})
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached simulation result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			c, err := cliCtx.remoteClient()
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to clear the cache at %s without --yes", c.BaseURL())
			}
			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			res, err := c.ClearCache(ctx)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == OutputJSON {
				return printJSON(cmd, res)
			}
			msg := res.Message
			if res.DeletedCount != nil {
				msg = fmt.Sprintf("%s (%d deleted)", msg, *res.DeletedCount)
			}
			PrintSuccess(cmd, msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

//Personal.AI order the ending
