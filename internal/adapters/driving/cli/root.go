// Package cli provides the docchat command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/docchat-labs/docchat-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/docchat-labs/docchat-cli/internal/adapters/driven/embedding/ollama"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/lexical/bm25"
	llmollama "github.com/docchat-labs/docchat-cli/internal/adapters/driven/llm/ollama"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/rerank/tei"
	filestore "github.com/docchat-labs/docchat-cli/internal/adapters/driven/storage/file"
	"github.com/docchat-labs/docchat-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/services"
	"github.com/docchat-labs/docchat-cli/internal/loaders"
	"github.com/docchat-labs/docchat-cli/internal/logger"
	"github.com/docchat-labs/docchat-cli/internal/splitter"
)

var version = "0.1.0"

var (
	flagConfig  string
	flagVerbose bool
	flagUser    string
)

// Wired services, set up in ensureServices before any command runs.
var (
	appConfig        configfile.Config
	sessionService   *services.SessionManager
	embeddingService *embeddingollama.EmbeddingService
	llmService       *llmollama.LLMService
	generateOpts     driven.GenerateOptions
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents from the terminal",
	Long: `docchat ingests a PDF or CSV document, indexes it locally and
answers questions grounded in its content using a local LLM.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return ensureServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml (default ~/.docchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "default", "user namespace for sessions")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices loads configuration and wires the service graph once.
func ensureServices() error {
	if sessionService != nil {
		return nil
	}

	path := flagConfig
	if path == "" {
		var err error
		path, err = configfile.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := configfile.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	appConfig = cfg

	sessionsDir, err := cfg.SessionsDir()
	if err != nil {
		return err
	}

	embeddingService = embeddingollama.NewEmbeddingService(embeddingollama.Config{
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})

	llmService = llmollama.NewLLMService(llmollama.LLMConfig{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	generateOpts = driven.GenerateOptions{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}

	var reranker driven.RerankService
	if cfg.Rerank.Enabled {
		reranker = tei.NewRerankService(tei.Config{
			BaseURL: cfg.Rerank.BaseURL,
			Model:   cfg.Rerank.Model,
		})
	}

	pipeline := services.NewIngestionPipeline(
		loaders.New(),
		splitter.New(
			splitter.WithChunkSize(cfg.Chunking.ChunkSize),
			splitter.WithOverlap(cfg.Chunking.ChunkOverlap),
			splitter.WithGroupSize(cfg.Chunking.CSVGroupSize),
		),
		sqlite.NewStore(),
		embeddingService,
	)

	sessionService = services.NewSessionManager(
		filestore.New(sessionsDir),
		pipeline,
		sqlite.NewStore(),
		embeddingService,
		func(chunks []domain.Chunk) driven.LexicalScorer { return bm25.New(chunks) },
		reranker,
		cfg.RetrievalSettings(),
	)

	return nil
}
