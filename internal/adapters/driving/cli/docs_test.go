package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driving"
)

func TestDocsCmd_Use(t *testing.T) {
	assert.Equal(t, "docs", docsCmd.Use)
}

func TestDocsCmd_HasSubcommands(t *testing.T) {
	commands := docsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "content")
	assert.Contains(t, commandNames, "remove")
	assert.Contains(t, commandNames, "stats")
}

func TestDocsListCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "doc-1")
	assert.Contains(t, buf.String(), "biology.txt")
	assert.Contains(t, buf.String(), "3 (indexed)")
	assert.Contains(t, buf.String(), "Total: 1 documents")
}

func TestDocsListCmd_EmptyLibrary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	documentService.(*mockDocumentService).docs = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents ingested yet")
}

func TestDocsShowCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"docs", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocsShowCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "show", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Document: doc-1")
	assert.Contains(t, buf.String(), "biology.txt")
	assert.Contains(t, buf.String(), "Format:   txt")
	assert.Contains(t, buf.String(), "Indexed:  yes")
}

func TestDocsContentCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "content", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Cells divide by mitosis.")
}

func TestDocsRemoveCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "remove", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Removed document doc-1")
	assert.Contains(t, buf.String(), "tutora compact")

	mock := documentService.(*mockDocumentService)
	assert.Equal(t, "default", mock.removedOwner)
	assert.Equal(t, "doc-1", mock.removedID)
}

func TestDocsRemoveCmd_NotOwner(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	documentService.(*mockDocumentService).err = domain.ErrNotOwner

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"docs", "remove", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestDocsStatsCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	documentService.(*mockDocumentService).stats = &driving.LibraryStats{
		Documents:  2,
		Vectors:    9,
		Tombstoned: 1,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Documents:  2")
	assert.Contains(t, buf.String(), "Vectors:    9")
	assert.Contains(t, buf.String(), "Tombstoned: 1")
	assert.Contains(t, buf.String(), "tutora compact")
}

func TestDocsCmds_ErrorWithoutService(t *testing.T) {
	oldDocs := documentService
	documentService = nil
	defer func() { documentService = oldDocs }()

	for _, args := range [][]string{
		{"docs", "list"},
		{"docs", "show", "doc-1"},
		{"docs", "content", "doc-1"},
		{"docs", "remove", "doc-1"},
		{"docs", "stats"},
	} {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs(args)

		err := rootCmd.Execute()

		assert.Error(t, err, "args: %v", args)
		assert.Contains(t, err.Error(), "not configured")
	}
	rootCmd.SetArgs(nil)
}
