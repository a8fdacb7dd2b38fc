package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Snapshot the working directory as a tree object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("write-tree: %w", err)
			}
			return a.dispatch(cmd.OutOrStdout(), WriteTreeCommand{Dir: wd})
		},
	}
}
