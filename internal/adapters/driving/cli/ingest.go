package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tutora-cli/internal/watch"
)

var watchDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest note files into your library",
	Long: `Reads, chunks, embeds and indexes note files so the tutor can use them.

Accepts files and directories; a directory is ingested one level deep,
skipping hidden and unsupported files. Supported formats: pdf, txt, md.

With --watch the command keeps running after the initial ingest and
re-ingests files in the watched directory as they change on disk.`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&watchDir, "watch", "w", "", "watch a directory and re-ingest changed files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if len(args) == 0 && watchDir == "" {
		return errors.New("nothing to ingest: pass file or directory paths, or --watch a directory")
	}

	ctx := cmd.Context()
	owner := resolveOwner()

	for _, path := range args {
		if err := ingestPath(ctx, cmd, path, owner); err != nil {
			return err
		}
	}

	if watchDir != "" {
		return watchAndIngest(ctx, cmd, watchDir, owner)
	}
	return nil
}

func ingestPath(ctx context.Context, cmd *cobra.Command, path, owner string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if info.IsDir() {
		results, err := ingestService.IngestDir(ctx, path, owner)
		for i := range results {
			printIngestResult(cmd, &results[i])
		}
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		if len(results) == 0 {
			cmd.Printf("No supported files found in %s.\n", path)
		}
		return nil
	}

	result, err := ingestService.Ingest(ctx, path, owner)
	if err != nil {
		if errors.Is(err, domain.ErrExcluded) {
			cmd.Printf("Skipped %s: it was removed earlier. Run 'tutora compact' to ingest it again.\n", filepath.Base(path))
			return nil
		}
		return fmt.Errorf("ingesting %s: %w", path, err)
	}
	printIngestResult(cmd, result)
	return nil
}

func printIngestResult(cmd *cobra.Command, r *driving.IngestResult) {
	if r == nil || r.Document == nil {
		return
	}
	if r.Indexed {
		cmd.Printf("Indexed %s (%d chunks)\n", r.Document.Filename, r.ChunkCount)
		return
	}
	cmd.Printf("Stored %s without indexing", r.Document.Filename)
	if r.Warning != "" {
		cmd.Printf(": %s", r.Warning)
	}
	cmd.Println()
}

// watchAndIngest blocks until ctx is cancelled, printing one line per
// re-ingested file.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, dir, owner string) error {
	watcher := watch.New(ingestService, owner)
	defer watcher.Close() //nolint:errcheck // Close on shutdown, nothing to do with the error

	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", dir)
	for ev := range events {
		switch {
		case errors.Is(ev.Err, domain.ErrExcluded):
			cmd.Printf("Skipped %s: it was removed earlier. Run 'tutora compact' to ingest it again.\n", filepath.Base(ev.Path))
		case ev.Err != nil:
			cmd.Printf("Failed to ingest %s: %v\n", filepath.Base(ev.Path), ev.Err)
		default:
			printIngestResult(cmd, ev.Result)
		}
	}
	return nil
}
