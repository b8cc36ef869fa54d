package cli

import (
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents in the collection",
	Long:  `Lists every ingested document with its stored chunk count.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureLibraryService(); err != nil {
			return err
		}

		docs, err := libraryService.Documents(cmd.Context())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			cmd.Println("No documents loaded. Run 'grimoire ingest <files>' to add some.")
			return nil
		}

		total := 0
		for _, d := range docs {
			cmd.Printf("  %-40s %4d chunks\n", d.Source, d.ChunkCount)
			total += d.ChunkCount
		}
		cmd.Printf("\n%d documents, %d chunks\n", len(docs), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
