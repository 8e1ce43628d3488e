// Command tutora is a study tutor grounded in the user's own notes.
//
// main assembles the hexagon: driven adapters (sqlite storage, TOML
// config, prompt files, AI providers) feed the core services, which are
// injected into the driving CLI. Commands that do not need a working AI
// provider (settings, docs, version) stay usable when none is
// configured.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/tutora-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/tutora-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tutora-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/tutora-cli/internal/core/services"
	"github.com/custodia-labs/tutora-cli/internal/logger"
	"github.com/custodia-labs/tutora-cli/internal/normalisers"
	"github.com/custodia-labs/tutora-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/tutora-cli/internal/normalisers/pdf"
	"github.com/custodia-labs/tutora-cli/internal/normalisers/plaintext"
	"github.com/custodia-labs/tutora-cli/internal/postprocessors"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	stateDir, err := resolveStateDir()
	if err != nil {
		return err
	}

	configStore, err := configfile.NewConfigStore(stateDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	promptStore, err := configfile.NewPromptStore(filepath.Join(stateDir, "prompts"))
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(stateDir, "data"))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// AI adapters are built without a connectivity check: startup must
	// stay fast, and a provider that is down answers for itself on
	// first use. A provider that cannot even be constructed is worth a
	// warning, but never blocks commands that run without AI.
	embedder, err := ai.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: embedding provider: %v\n", err)
	}
	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider: %v\n", err)
	}

	indexService := services.NewIndexService(store.VectorStore(), embedder, store.ExclusionStore())
	if embedder != nil {
		if err := indexService.Initialise(ctx); err != nil {
			return fmt.Errorf("initialising vector index: %w", err)
		}
	} else {
		// Without an embedder the index cannot seed its placeholder;
		// Add and Search initialise lazily once a provider exists.
		logger.Debug("No embedding provider configured; vector index left closed")
	}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(pdf.New())

	processorRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processorRegistry)
	pipeline, err := postprocessors.BuildFromConfig(processorRegistry, settings.Pipeline)
	if err != nil {
		return fmt.Errorf("building ingest pipeline: %w", err)
	}

	ingestService := services.NewIngestService(
		store.DocumentStore(),
		store.ExclusionStore(),
		registry,
		pipeline,
		indexService,
	)
	retrievalService := services.NewRetrievalService(indexService, store.DocumentStore())
	promptBuilder := services.NewPromptBuilder(promptStore)
	generationService := services.NewGenerationService(llm, settings.LLM.Provider)
	tutorService := services.NewTutorService(retrievalService, promptBuilder, generationService)
	documentService := services.NewDocumentService(
		store.DocumentStore(),
		store.ExclusionStore(),
		indexService,
	)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Ingest:    ingestService,
		Tutor:     tutorService,
		Documents: documentService,
		Settings:  settingsService,
	})

	return cli.Execute(ctx)
}

// resolveStateDir returns the tutora state directory, honouring the
// TUTORA_HOME override used by tests and unusual setups.
func resolveStateDir() (string, error) {
	if dir := os.Getenv("TUTORA_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".tutora"), nil
}
