package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document from the collection",
	Long: `Deletes all stored chunks and their embeddings. The collection is
empty afterwards; ingested files on disk are not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureLibraryService(); err != nil {
			return err
		}

		total, err := libraryService.TotalChunks(cmd.Context())
		if err != nil {
			return err
		}
		if total == 0 {
			cmd.Println("Collection is already empty.")
			return nil
		}

		if !clearYes {
			cmd.Printf("Delete all %d chunks? [y/N]: ", total)
			reader := bufio.NewReader(cmd.InOrStdin())
			answer := strings.ToLower(readLine(reader))
			if answer != "y" && answer != "yes" {
				cmd.Println("Aborted.")
				return nil
			}
		}

		if err := libraryService.Clear(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Collection cleared.")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
