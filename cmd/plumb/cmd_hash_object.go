package main

import (
	"github.com/spf13/cobra"
)

func newHashObjectCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] <file>",
		Short: "Compute a file's blob address, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.dispatch(cmd.OutOrStdout(), HashObjectCommand{Path: args[0], Write: write})
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the blob in the object database")
	return cmd
}
