package cli

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"osindexer/internal/adapter/chunker"
	"osindexer/internal/adapter/embedding"
	"osindexer/internal/adapter/fs"
	"osindexer/internal/adapter/manifest"
	"osindexer/internal/adapter/search"
	"osindexer/internal/port"
	"osindexer/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Embed local text files and index them remotely",
	Long: `Read text files from the given directory (default: the configured
local_download_path), split them into chunks, embed each chunk with the
configured Bedrock model, and upsert the records into the configured
OpenSearch index. The index is created with a knn_vector mapping if it
does not exist yet.

Examples:
  osindexer ingest            # Use local_download_path from config
  osindexer ingest ./corpus   # Index a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()

	path := cfg.LocalDownloadPath
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	awsCfg, err := loadAWSConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	embedder := embedding.NewBedrockEmbedder(awsCfg, cfg.BedrockEmbeddingModelID)

	index, err := search.NewClient(awsCfg, cfg.OpenSearchEndpoint)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	var man port.Manifest
	if cfg.Ingest.ManifestPath != "" {
		m, err := manifest.Open(cfg.Ingest.ManifestPath)
		if err != nil {
			return fmt.Errorf("failed to open manifest: %w", err)
		}
		defer m.Close()
		man = m
	}

	chk, err := chunker.NewWindowChunker(cfg.Chunking.MaxChars, cfg.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("invalid chunking parameters: %w", err)
	}

	walker := fs.NewWalker(cfg.Loader.Includes, cfg.Loader.Excludes, cfg.Loader.Recursive)

	ingestUC := usecase.NewIngestUseCase(
		walker, chk, embedder, index, man,
		cfg.IndexName, cfg.Ingest.BatchSize,
	)

	fmt.Printf("Scanning %s...\n", path)
	fmt.Printf("Embedding model: %s (dimension %d)\n", embedder.ModelName(), embedder.Dimension())

	var bar *progressbar.ProgressBar
	progress := func(processed, total int, currentFile string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		if currentFile != "" {
			bar.Describe(fmt.Sprintf("[cyan]Ingesting[reset] %s", filepath.Base(currentFile)))
		}
		bar.Set(processed)
	}

	result, err := ingestUC.Ingest(ctx, path, progress)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("\nIngest complete:\n")
	fmt.Printf("  Files ingested: %d\n", result.FilesIngested)
	fmt.Printf("  Files skipped:  %d (unchanged or empty)\n", result.FilesSkipped)
	fmt.Printf("  Chunks indexed: %d\n", result.ChunksIndexed)

	if len(result.Succeeded) > 0 {
		fmt.Printf("\nSuccessfully processed files:\n")
		for _, file := range result.Succeeded {
			fmt.Printf("  %s\n", file)
		}
	}

	if len(result.Failed) > 0 {
		fmt.Printf("\nFailed files:\n")
		for _, failure := range result.Failed {
			fmt.Printf("  %s: %s\n", failure.Path, failure.Err)
		}
	}

	return nil
}
