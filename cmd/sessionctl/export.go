package main

import (
	"fmt"
	"os"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/spf13/cobra"
)

func newExportCmd(with serviceRunner) *cobra.Command {
	var (
		format string
		out    string
	)

	exportCmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Write a session transcript as markdown, pdf or docx",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, svc *services) error {
			data, _, ext, err := svc.sessions.ExportTranscript(cmd.Context(), args[0], entity.ResultFormat(format))
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = "session-" + args[0] + ext
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
			return nil
		}),
	}
	exportCmd.Flags().StringVar(&format, "format", string(entity.FormatMarkdown), "markdown, pdf or docx")
	exportCmd.Flags().StringVar(&out, "out", "", "output path (default session-<id>.<ext>)")

	return exportCmd
}
