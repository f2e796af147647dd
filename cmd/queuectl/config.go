package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newConfigCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "view and change the durable queue configuration",
	}
	cmd.AddCommand(newConfigShowCmd(ctx))
	cmd.AddCommand(newConfigSetCmd(ctx))
	return cmd
}

func newConfigShowCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "print every configuration key/value pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			all, err := st.ConfigAll(ctx)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Key", "Value")
			for _, k := range keys {
				_ = table.Append([]string{k, all[k]})
			}
			_ = table.Render()
			return nil
		},
	}
}

func newConfigSetCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "set a recognized configuration key (max-retries, backoff-base, job-timeout, retention-age-seconds)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := st.ConfigSet(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
}
