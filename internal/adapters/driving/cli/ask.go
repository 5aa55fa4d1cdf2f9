package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

var askConversation string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves relevant fragments from your documents and generates an
answer grounded in them, with citations.

Pass --conversation to continue an earlier conversation; the assistant
then sees the previous turns.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var historyCmd = &cobra.Command{
	Use:   "history [conversation-id]",
	Short: "Show the messages of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	askCmd.Flags().StringVarP(&askConversation, "conversation", "c", "", "conversation ID to continue")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if dialogueService == nil {
		return errors.New("dialogue service not configured")
	}

	answer, err := dialogueService.Ask(cmd.Context(), askConversation, userIDFlag, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(styleAnswer.Render(answer.Content))
	cmd.Println()
	printCitations(cmd, answer.Citations)
	cmd.Printf("%s\n", styleMuted.Render("Conversation: "+answer.ConversationID))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if dialogueService == nil {
		return errors.New("dialogue service not configured")
	}

	messages, err := dialogueService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(messages) == 0 {
		cmd.Println("No messages in this conversation.")
		return nil
	}

	for i := range messages {
		cmd.Printf("%s\n", styleTitle.Render(string(messages[i].Role)))
		cmd.Println(styleAnswer.Render(messages[i].Content))
		printCitations(cmd, messages[i].Citations)
		cmd.Println()
	}
	return nil
}

func printCitations(cmd *cobra.Command, citations []domain.Citation) {
	if len(citations) == 0 {
		return
	}

	cmd.Println(styleMuted.Render("Sources:"))
	for i, c := range citations {
		title := c.DocumentTitle
		if title == "" {
			title = fmt.Sprintf("document %d", c.DocumentID)
		}
		cmd.Printf("  [%d] %s %s\n", i+1, title,
			styleMuted.Render(fmt.Sprintf("(chunk %d)", c.ChunkIndex)))
	}
	cmd.Println()
}
