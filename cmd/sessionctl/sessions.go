package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSessionsCmd(with serviceRunner) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored sessions",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recently active first",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, svc *services) error {
			sessions, err := svc.sessions.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tUPDATED")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Title, s.MessageCount, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		}),
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of sessions")

	deleteCmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its history",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			deleted, err := svc.sessions.DeleteSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("session %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		}),
	}

	renameCmd := &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Change a session title",
		Args:  cobra.MinimumNArgs(2),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			title := strings.Join(args[1:], " ")
			updated, err := svc.sessions.UpdateTitle(cmd.Context(), args[0], title)
			if err != nil {
				return err
			}
			if !updated {
				return fmt.Errorf("session %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed session %s to %q\n", args[0], title)
			return nil
		}),
	}

	var days int
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete sessions inactive for more than --days",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, svc *services) error {
			deleted, err := svc.sessions.CleanupOlderThan(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d session(s) older than %d day(s)\n", deleted, days)
			return nil
		}),
	}
	cleanupCmd.Flags().IntVar(&days, "days", 30, "inactivity threshold in days")

	sessionsCmd.AddCommand(listCmd, deleteCmd, renameCmd, cleanupCmd)
	return sessionsCmd
}
