// Command doctalk is the entry point: it wires the storage, embedding,
// vector and LLM adapters from configuration and hands them to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/doctalk-labs/doctalk/internal/adapters/driven/config/file"
	ollamaembed "github.com/doctalk-labs/doctalk/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/doctalk-labs/doctalk/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/doctalk-labs/doctalk/internal/adapters/driven/llm/ollama"
	openaillm "github.com/doctalk-labs/doctalk/internal/adapters/driven/llm/openai"
	"github.com/doctalk-labs/doctalk/internal/adapters/driven/storage/sqlite"
	"github.com/doctalk-labs/doctalk/internal/adapters/driven/vectordb/qdrant"
	"github.com/doctalk-labs/doctalk/internal/adapters/driving/cli"
	"github.com/doctalk-labs/doctalk/internal/chunker"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
	"github.com/doctalk-labs/doctalk/internal/core/services"
	"github.com/doctalk-labs/doctalk/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("data.dir"))
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	var vectorStore driven.VectorStore
	if embedder != nil {
		vectorStore = qdrant.NewStore(qdrant.Config{
			BaseURL:    cfg.GetString("qdrant.url"),
			APIKey:     cfg.GetString("qdrant.api_key"),
			Collection: cfg.GetString("qdrant.collection"),
			VectorSize: embedder.Dimensions(),
		})
	} else {
		logger.Debug("No embedding provider configured, search is keyword-only")
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	searchSvc := services.NewSearchService(store, vectorStore, embedder)
	if threshold := cfg.GetFloat("search.score_threshold"); threshold > 0 {
		searchSvc.SetScoreThreshold(threshold)
	}

	documentSvc := services.NewDocumentService(store, vectorStore, embedder, chunker.New())
	dialogueSvc := services.NewDialogueService(store, searchSvc, generator)

	if prompts, err := file.NewPromptStore(""); err == nil {
		if prompt, err := prompts.Load(file.PromptDialogueSystem); err == nil {
			dialogueSvc.SetSystemPrompt(prompt)
		}
	}

	cli.SetServices(cli.Services{
		Search:   searchSvc,
		Document: documentSvc,
		Dialogue: dialogueSvc,
		Config:   cfg,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// buildEmbedder constructs the configured embedding adapter. A missing
// provider is not an error: the application degrades to keyword-only
// search.
func buildEmbedder(cfg *file.ConfigStore) (driven.Embedder, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "openai":
		embedder, err := openaiembed.NewEmbedder(openaiembed.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai embedder: %w", err)
		}
		return embedder, nil
	case "ollama":
		return ollamaembed.NewEmbedder(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildGenerator constructs the configured LLM adapter. A missing
// provider is not an error: ask commands then report the generator as
// unavailable.
func buildGenerator(cfg *file.ConfigStore) (driven.Generator, error) {
	switch provider := cfg.GetString("llm.provider"); provider {
	case "openai":
		generator, err := openaillm.NewGenerator(openaillm.Config{
			APIKey:  cfg.GetString("llm.api_key"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai generator: %w", err)
		}
		return generator, nil
	case "ollama":
		return ollamallm.NewGenerator(ollamallm.Config{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		}), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
