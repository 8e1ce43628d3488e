// Package pdf normalises PDF notes using the poppler pdftotext tool.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// maxTitleLength is the longest first line still treated as a title.
const maxTitleLength = 200

// CommandRunner executes an external command and returns its stdout.
// It exists so tests can stub out pdftotext.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Normaliser handles PDF documents. Extraction shells out to pdftotext,
// which separates pages with form feeds; each page becomes a section.
type Normaliser struct {
	runner CommandRunner
}

// New creates a new PDF normaliser using the system pdftotext.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `PDF support requires pdftotext from poppler:

  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// SupportedFormats returns the document formats this normaliser handles.
func (n *Normaliser) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts text from a PDF, one section per page. Pages with
// no extractable text are dropped; page numbers stay as printed.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	if err := CheckAvailable(); err != nil {
		return nil, err
	}

	output, err := n.extract(ctx, raw)
	if err != nil {
		return nil, err
	}

	sections := splitPages(output)
	if len(sections) == 0 {
		return nil, fmt.Errorf("no extractable text in %s: %w", raw.Filename, domain.ErrExtractionFailed)
	}

	uploadedAt := raw.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	doc := &domain.Document{
		ID:         uuid.New().String(),
		OwnerID:    raw.OwnerID,
		Filename:   raw.Filename,
		Path:       raw.Path,
		Format:     domain.FormatPDF,
		UploadedAt: uploadedAt,
		Metadata:   copyMetadata(raw.Metadata),
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType
	doc.Metadata["page_count"] = len(sections)
	if title := extractTitle(sections[0].Content, raw.Filename); title != "" {
		doc.Metadata["title"] = title
	}

	return &driven.NormaliseResult{
		Document: doc,
		Sections: sections,
	}, nil
}

// extract writes the raw bytes to a temp file and runs pdftotext on it.
// pdftotext reads from files only, hence the round-trip through disk.
func (n *Normaliser) extract(ctx context.Context, raw *domain.RawDocument) (string, error) {
	tmp, err := os.CreateTemp("", "tutora-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	// "-" sends the text to stdout; pages arrive separated by \f.
	output, err := n.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", tmpPath, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %s: %w", err, domain.ErrExtractionFailed)
	}

	return string(output), nil
}

// splitPages turns pdftotext output into per-page sections, skipping
// pages with no text but keeping the original page numbering.
func splitPages(output string) []domain.Section {
	pages := strings.Split(output, "\f")
	sections := make([]domain.Section, 0, len(pages))
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		sections = append(sections, domain.Section{
			Content: page,
			Page:    i + 1,
		})
	}
	return sections
}

// extractTitle takes the first reasonably short line of the content as
// the title, falling back to a cleaned-up filename.
func extractTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLength {
			continue
		}
		return line
	}

	name := filepath.Base(filename)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
