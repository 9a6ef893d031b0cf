package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/homepage/internal/debuglog"
)

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the persisted feed cache",
	}

	show := &cobra.Command{
		Use:   "show [prefix]",
		Short: "List cached feed values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer debuglog.Close()

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			entries, err := store.Entries(prefix)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Key, describeValue(e.Key, e.Value))
			}
			if lastRun, err := store.GetMeta(lastRunKey); err == nil {
				fmt.Fprintf(w, "(last run)\t%s\n", lastRun)
			}
			return w.Flush()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear [prefix]",
		Short: "Delete cached values, all of them or those under a prefix such as bsv_",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer debuglog.Close()

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			n, err := store.Clear(prefix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return nil
		},
	}

	cmd.AddCommand(show, clearCmd)
	return cmd
}

// describeValue renders fetch timestamps as times.
func describeValue(key, value string) string {
	if !strings.HasSuffix(key, "_fetch") {
		return value
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%s (%s)", value, time.UnixMilli(ms).UTC().Format(time.RFC3339))
}
