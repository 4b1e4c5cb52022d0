package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKnowledgeCmd(with serviceRunner) *cobra.Command {
	kbCmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge index",
	}

	reloadCmd := &cobra.Command{
		Use:   "reload",
		Short: "Rebuild the index from the knowledge directory",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, svc *services) error {
			result, err := svc.knowledge.ReloadKnowledge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunk(s) from %d file(s)\n", result.Chunks, result.Files)
			return nil
		}),
	}

	kbCmd.AddCommand(reloadCmd)
	return kbCmd
}
