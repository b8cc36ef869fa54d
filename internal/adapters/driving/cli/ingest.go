package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file|glob>...",
	Short: "Load documents into the collection",
	Long: `Loads documents so their content can be retrieved when answering
questions. Supported formats: PDF, Markdown, plain text.

Arguments may be file paths or glob patterns. A file whose name is
already in the collection is skipped; a file that fails does not stop
the rest of the batch.

Examples:
  grimoire ingest manual.pdf
  grimoire ingest docs/*.md
  grimoire ingest 'notes/**/*.txt'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// fileSource adapts a filesystem path to the upload interface the
// ingestion pipeline consumes.
type fileSource struct {
	path string
}

func (f fileSource) Name() string { return filepath.Base(f.path) }

func (f fileSource) Bytes() ([]byte, error) { return os.ReadFile(f.path) }

type ingestOutcome struct {
	name   string
	result domain.IngestResult
	err    error
}

func runIngest(cmd *cobra.Command, args []string) error {
	paths, err := expandPaths(args)
	if err != nil {
		return err
	}

	if err := ensureIngestService(); err != nil {
		return err
	}

	// Progress and verbose logging share stderr; show only one of them.
	var bar *progressbar.ProgressBar
	if !logger.IsVerbose() {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("Ingesting"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}),
		)
	}

	outcomes := make([]ingestOutcome, 0, len(paths))
	for _, path := range paths {
		result, err := ingestService.Ingest(cmd.Context(), fileSource{path: path})
		outcomes = append(outcomes, ingestOutcome{name: filepath.Base(path), result: result, err: err})
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	var added, skipped, failed, chunks int
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			cmd.Printf("  %-32s failed: %v\n", o.name, o.err)
		case o.result.Skipped:
			skipped++
			cmd.Printf("  %-32s skipped (already loaded)\n", o.name)
		default:
			added++
			chunks += o.result.ChunksAdded
			cmd.Printf("  %-32s added %d chunks\n", o.name, o.result.ChunksAdded)
		}
	}

	cmd.Printf("\n%d added, %d skipped, %d failed (%d chunks stored)\n", added, skipped, failed, chunks)

	if failed == len(outcomes) {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

// expandPaths resolves globs and literal paths into a deduplicated,
// directory-free file list, preserving argument order.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})

	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no ingestable files found")
	}
	return paths, nil
}
