package main

import (
	"github.com/spf13/cobra"
)

func newLsTreeCmd(a *app) *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree --name-only <tree>",
		Short: "List the entry names of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !nameOnly {
				return usagef("ls-tree: --name-only is required")
			}
			h, err := parseHashArg("tree", args[0])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return a.dispatch(cmd.OutOrStdout(), LsTreeCommand{Hash: h})
		},
	}
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "print only entry names")
	return cmd
}
