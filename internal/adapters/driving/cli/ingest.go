package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestSessionID string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Upload and index a document for a session",
	Long: `Copies the document into a session, splits it into chunks and
builds the local index. Without --session a new session is created.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSessionID, "session", "s", "", "session to ingest into (default: new session)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := embeddingService.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("embedding backend unreachable: %w", err)
	}

	session, err := sessionService.GetOrCreate(flagUser, ingestSessionID)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}

	if !sessionService.Ingest(cmd.Context(), session, args[0]) {
		return errors.New("ingestion failed, run with --verbose for details")
	}

	cmd.Printf("Ingested %s into session %s (%d chunks)\n",
		session.Metadata.FileName, session.ID, len(session.Chunks))
	return nil
}
