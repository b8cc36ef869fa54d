package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat over the loaded documents",
	Long: `Opens an interactive chat session. Each question is answered from the
loaded documents, with streaming output and source citations underneath.
History lives only in the session; quitting discards it.

Controls:
  Enter      - Ask
  PgUp/PgDn  - Scroll history
  Ctrl+C/Esc - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Keep a stack trace visible if the UI panics after taking over
	// the terminal.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := ensureAnswerService(); err != nil {
		return err
	}
	if err := ensureLibraryService(); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Answer:  answerService,
		Library: libraryService,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
