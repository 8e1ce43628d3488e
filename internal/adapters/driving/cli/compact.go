package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Purge removed documents from the index",
	Long: `Physically deletes the vectors left behind by removed documents and
clears their tombstones, allowing those files to be ingested again.`,
	RunE: runCompact,
}

func init() {
	rootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	compacted, err := documentService.Compact(cmd.Context())
	if err != nil {
		return fmt.Errorf("compacting index: %w", err)
	}

	if compacted == 0 {
		cmd.Println("Nothing to compact.")
		return nil
	}
	cmd.Printf("Compacted %d removed documents.\n", compacted)
	return nil
}
