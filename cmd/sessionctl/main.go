// Command sessionctl administers the session store and the knowledge index
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/futig/assistant-backend/internal/builder"
	"github.com/futig/assistant-backend/internal/entity"
	"github.com/spf13/cobra"
)

// sessionAdmin is the session usecase surface the CLI drives
type sessionAdmin interface {
	ListSessions(ctx context.Context, limit int) ([]entity.SessionSummary, error)
	DeleteSession(ctx context.Context, sessionID string) (bool, error)
	UpdateTitle(ctx context.Context, sessionID, title string) (bool, error)
	CleanupOlderThan(ctx context.Context, days int) (int64, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ResultFormat) ([]byte, string, string, error)
}

type knowledgeReloader interface {
	ReloadKnowledge(ctx context.Context) (*entity.ReloadResult, error)
}

type services struct {
	sessions  sessionAdmin
	knowledge knowledgeReloader
	close     func()
}

// opener builds the services for an environment
type opener func(ctx context.Context, env string) (*services, error)

func openCore(ctx context.Context, env string) (*services, error) {
	core, err := builder.NewCore(ctx, env)
	if err != nil {
		return nil, err
	}
	return &services{
		sessions:  core.Sessions,
		knowledge: core,
		close:     func() { core.Close(context.Background()) },
	}, nil
}

func main() {
	if err := newRootCmd(openCore).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	var env string

	rootCmd := &cobra.Command{
		Use:   "sessionctl",
		Short: "Administer assistant sessions and the knowledge index",
		Long: `sessionctl manages the assistant's stored conversations and knowledge index.

Subcommands:
  sessions  - list, rename and delete sessions, purge old ones
  export    - write a session transcript to a file
  kb        - rebuild the knowledge index`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&env, "env", "local", "environment name, selects the .env.<name> file")

	withServices := func(run func(cmd *cobra.Command, args []string, svc *services) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context(), env)
			if err != nil {
				return fmt.Errorf("open services: %w", err)
			}
			defer svc.close()
			return run(cmd, args, svc)
		}
	}

	rootCmd.AddCommand(
		newSessionsCmd(withServices),
		newExportCmd(withServices),
		newKnowledgeCmd(withServices),
	)
	return rootCmd
}

type serviceRunner func(run func(cmd *cobra.Command, args []string, svc *services) error) func(*cobra.Command, []string) error
