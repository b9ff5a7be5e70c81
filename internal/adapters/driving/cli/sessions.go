package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		metas := sessionService.ListSessions(flagUser)
		if len(metas) == 0 {
			cmd.Println("No sessions.")
			return
		}

		for _, meta := range metas {
			doc := "no document"
			if meta.FileUploaded {
				doc = meta.FileName
			}
			cmd.Printf("%s  %s  %-30s  %s\n", meta.SessionID, meta.CreatedAt, meta.Title, doc)
		}
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		known := false
		for _, meta := range sessionService.ListSessions(flagUser) {
			if meta.SessionID == args[0] {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("session %s not found", args[0])
		}

		session, err := sessionService.GetOrCreate(flagUser, args[0])
		if err != nil {
			return fmt.Errorf("opening session: %w", err)
		}
		if !sessionService.Delete(session) {
			return fmt.Errorf("session %s not found", args[0])
		}
		cmd.Printf("Deleted session %s\n", session.ID)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
