package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pdfchat/src/config"
	"pdfchat/src/core/ingest"
	"pdfchat/src/log"
)

var (
	ingestFile     string
	ingestIndex    string
	ingestProvider string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a PDF into the vector store",
	Long: `The ingest command processes a single PDF file into a retrieval
index without starting the server. Useful for pre-loading documents.`,
	Run: RunIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "path to the PDF file (required)")
	ingestCmd.Flags().StringVarP(&ingestIndex, "index", "i", "", "target index name (defaults to the configured index)")
	ingestCmd.Flags().StringVarP(&ingestProvider, "provider", "p", config.ProviderOllama, "embedding provider (ollama or openai)")
	ingestCmd.MarkFlagRequired("file")
}

// stageOrder numbers the pipeline stages for progress rendering.
var stageOrder = map[ingest.Stage]int{
	ingest.StageExtract:   1,
	ingest.StageChunk:     2,
	ingest.StageProbe:     3,
	ingest.StageProvision: 4,
	ingest.StageUpsert:    5,
}

func RunIngest(cmd *cobra.Command, args []string) {
	cfg := config.Load()
	if err := cfg.ValidateRAG(); err != nil {
		log.Error(err, "Invalid RAG configuration")
		os.Exit(1)
	}

	indexName := ingestIndex
	if indexName == "" {
		indexName = cfg.RAG.IndexName
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Error(err, "Failed to create vector store")
		os.Exit(1)
	}

	provider, err := providerFactory(cfg)(ingestProvider)
	if err != nil {
		log.Error(err, "Failed to create provider", "provider", ingestProvider)
		os.Exit(1)
	}

	data, err := os.ReadFile(ingestFile)
	if err != nil {
		log.Error(err, "Failed to read file", "file", ingestFile)
		os.Exit(1)
	}

	bar := progressbar.NewOptions(len(stageOrder),
		progressbar.OptionSetDescription("ingesting"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
	)
	seen := 0
	observe := func(ev ingest.ProgressEvent) {
		if n := stageOrder[ev.Stage]; n > seen {
			seen = n
			bar.Set(n)
		}
		bar.Describe(ev.Detail)
	}

	pipeline := ingest.NewPipeline(provider, store, ingestConfig(cfg))
	summary, err := pipeline.Ingest(context.Background(), data, filepath.Base(ingestFile), indexName, observe)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		log.Error(err, "Ingestion failed", "file", ingestFile, "index", indexName)
		os.Exit(1)
	}
	bar.Finish()

	fmt.Printf("\ningested %s: %d pages, %d chunks (dimension %d) into %s\n",
		filepath.Base(ingestFile), summary.Pages, summary.Chunks, summary.Dimension, summary.IndexName)
}
