package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documents",
	Long:  `List, inspect or remove documents from your library.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print the stored text of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsContent,
}

var docsRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from your library",
	Long: `Removes a document so the tutor stops using it immediately.

Its index space is reclaimed by the next 'tutora compact'; until then the
same file cannot be ingested again.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsRemove,
}

var docsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library and index statistics",
	RunE:  runDocsStats,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsContentCmd)
	docsCmd.AddCommand(docsRemoveCmd)
	docsCmd.AddCommand(docsStatsCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	owner := resolveOwner()
	docs, err := documentService.List(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet. Run 'tutora ingest' to add some.")
		return nil
	}

	cmd.Printf("Documents for %s:\n\n", owner)
	for i := range docs {
		status := "indexed"
		if !docs[i].Indexed {
			status = "not indexed"
		}
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:     %s\n", docs[i].Filename)
		cmd.Printf("    Uploaded: %s\n", docs[i].UploadedAt.Format("2006-01-02 15:04:05"))
		cmd.Printf("    Chunks:   %d (%s)\n", docs[i].ChunkCount, status)
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	details, err := documentService.GetDetails(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	status := "yes"
	if !details.Indexed {
		status = "no"
	}

	cmd.Printf("Document: %s\n\n", details.ID)
	cmd.Printf("  File:     %s\n", details.Filename)
	cmd.Printf("  Format:   %s\n", details.Format)
	cmd.Printf("  Owner:    %s\n", details.OwnerID)
	cmd.Printf("  Chunks:   %d\n", details.ChunkCount)
	cmd.Printf("  Indexed:  %s\n", status)
	cmd.Printf("  Uploaded: %s\n", details.UploadedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocsContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content, err := documentService.GetContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocsRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	if err := documentService.Remove(cmd.Context(), resolveOwner(), docID); err != nil {
		return fmt.Errorf("removing document: %w", err)
	}

	cmd.Printf("Removed document %s.\n", docID)
	cmd.Println("Run 'tutora compact' to reclaim its index space.")
	return nil
}

func runDocsStats(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	owner := resolveOwner()
	stats, err := documentService.Stats(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	cmd.Printf("Library statistics for %s:\n\n", owner)
	cmd.Printf("  Documents:  %d\n", stats.Documents)
	cmd.Printf("  Vectors:    %d\n", stats.Vectors)
	cmd.Printf("  Tombstoned: %d\n", stats.Tombstoned)
	if stats.Tombstoned > 0 {
		cmd.Println()
		cmd.Println("Run 'tutora compact' to purge tombstoned documents.")
	}
	return nil
}
