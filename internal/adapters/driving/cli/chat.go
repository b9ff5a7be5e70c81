package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat-cli/internal/core/services"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat over an ingested document",
	Long: `Opens an interactive prompt against a session. Answers stream as
they are generated and the conversation is persisted between runs.
Type "exit" to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "session to chat in (default: new session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := llmService.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("LLM backend unreachable: %w", err)
	}

	session, err := sessionService.GetOrCreate(flagUser, chatSessionID)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}

	if session.Metadata.FileUploaded && sessionService.Retriever(session) == nil {
		if !sessionService.Restore(cmd.Context(), session) {
			cmd.PrintErrln("Could not restore the session's document; ingest it again.")
		}
	}

	chat := services.NewChatOrchestrator(session, sessionService, llmService, generateOpts)

	cmd.Printf("Session %s (%s). Type \"exit\" to quit.\n", session.ID, session.Metadata.Title)
	for _, turn := range session.Transcript.Turns() {
		cmd.Printf("[%s] %s\n", turn.Role, turn.Content)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" {
			break
		}

		for fragment := range chat.Stream(cmd.Context(), question) {
			cmd.Print(fragment)
		}
		cmd.Println()
	}

	return scanner.Err()
}
