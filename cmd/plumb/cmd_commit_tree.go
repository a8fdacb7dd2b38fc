package main

import (
	"github.com/spf13/cobra"
)

func newCommitTreeCmd(a *app) *cobra.Command {
	var (
		parent  string
		message string
		sign    bool
		signKey string
	)

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> [-p <parent>] -m <message>",
		Short: "Create a commit object for a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseHashArg("tree", args[0])
			if err != nil {
				return err
			}
			c := CommitTreeCommand{
				Tree:    tree,
				Message: message,
				Sign:    sign || signKey != "",
				SignKey: signKey,
			}
			if cmd.Flags().Changed("parent") {
				if c.Parent, err = parseHashArg("parent", parent); err != nil {
					return err
				}
			}
			cmd.SilenceUsage = true
			return a.dispatch(cmd.OutOrStdout(), c)
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent commit")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVarP(&sign, "sign", "S", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "SSH private key for signing (default: ~/.ssh/id_ed25519, id_ecdsa, id_rsa)")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
