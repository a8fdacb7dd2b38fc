package main

import (
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := InitCommand{Path: "."}
			if len(args) > 0 {
				c.Path = args[0]
			}
			cmd.SilenceUsage = true
			return a.dispatch(cmd.OutOrStdout(), c)
		},
	}
}
