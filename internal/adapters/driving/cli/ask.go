package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your notes",
	Long: `Answers a question using only your ingested notes.

The answer names the files it was grounded on. When your notes contain
nothing relevant the tutor says so instead of guessing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if tutorService == nil {
		return errors.New("tutor service not configured")
	}

	question := strings.Join(args, " ")

	result, err := tutorService.Ask(cmd.Context(), question, resolveOwner())
	if err != nil {
		return fmt.Errorf("asking failed: %w", err)
	}

	cmd.Println(result.Answer)

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		seen := make(map[string]bool, len(result.Sources))
		for _, src := range result.Sources {
			if seen[src.Chunk.Filename] {
				continue
			}
			seen[src.Chunk.Filename] = true
			cmd.Printf("  - %s\n", src.Chunk.Filename)
		}
	}
	return nil
}
