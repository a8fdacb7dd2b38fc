package main

import (
	"github.com/spf13/cobra"
)

func newCatFileCmd(a *app) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "cat-file -p <object>",
		Short: "Print the payload of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pretty {
				return usagef("cat-file: -p is required")
			}
			h, err := parseHashArg("object", args[0])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return a.dispatch(cmd.OutOrStdout(), CatFileCommand{Hash: h})
		},
	}
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "print the object payload")
	return cmd
}
