package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

var (
	askTopK   int
	askStream bool
)

// Answer rendering, on the chat TUI palette.
var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the loaded documents",
	Long: `Answers a question using only the loaded documents as context.
The most relevant stored passages are retrieved, handed to the language
model, and cited under the answer.

Examples:
  grimoire ask "How do I rotate the signing key?"
  grimoire ask --stream "Summarise the migration guide"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "context chunks to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askStream, "stream", false, "print the answer as it is generated")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if err := ensureAnswerService(); err != nil {
		return err
	}

	results, err := answerService.Retrieve(cmd.Context(), question, askTopK)
	if err != nil {
		return err
	}

	if avg := domain.AverageSimilarity(results); avg < domain.LowConfidenceThreshold {
		cmd.Println(warnStyle.Render(fmt.Sprintf(
			"Note: retrieved context is weakly related to the question (mean relevance %.0f%%).", avg*100)))
		cmd.Println()
	}

	if askStream {
		return streamAnswer(cmd, question, results)
	}
	return printAnswer(cmd, question, results)
}

func printAnswer(cmd *cobra.Command, question string, results []domain.RetrievalResult) error {
	answer, err := answerService.Answer(cmd.Context(), question, results)
	if err != nil {
		return err
	}

	cmd.Println(answer.Text)
	printSources(cmd, results)
	printMeta(cmd, answer.Model, answer.Elapsed)
	return nil
}

func streamAnswer(cmd *cobra.Command, question string, results []domain.RetrievalResult) error {
	start := time.Now()
	stream, err := answerService.AnswerStream(cmd.Context(), question, results)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for fragment := range stream.Fragments {
		fmt.Fprint(out, fragment)
	}
	fmt.Fprintln(out)

	printSources(cmd, results)
	printMeta(cmd, stream.Model, time.Since(start))
	return nil
}

func printSources(cmd *cobra.Command, results []domain.RetrievalResult) {
	if len(results) == 0 {
		return
	}
	cmd.Println()
	cmd.Println(headingStyle.Render("Sources:"))
	for i, r := range results {
		cmd.Println(sourceStyle.Render(fmt.Sprintf(
			"  [%d] %s, chunk #%d (relevance: %.0f%%)", i+1, r.Source, r.ChunkIndex, r.Similarity*100)))
	}
}

func printMeta(cmd *cobra.Command, model string, elapsed time.Duration) {
	cmd.Println()
	cmd.Println(sourceStyle.Render(fmt.Sprintf("Model: %s | Time: %.1fs", model, elapsed.Seconds())))
}
