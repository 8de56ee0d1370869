package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"swissvote/config"
	"swissvote/internal/adapter/chunker"
	"swissvote/internal/adapter/store"
	"swissvote/internal/usecase"
)

var indexVoteID string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk and embed all imported brochures",
	Long: `Index the brochure texts of every imported initiative for retrieval.
Chunk ids are deterministic, so running index again updates chunks in
place.

Examples:
  swissvote index              # Index all initiatives
  swissvote index --vote 664   # Re-index a single vote from scratch`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexVoteID, "vote", "", "re-index only this vote id, dropping its old chunks first")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	if err := config.EnsureDataDir(GetRootDir()); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewSQLiteMetadataStore(config.MetadataDBPath(GetRootDir()))
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer st.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	index, err := store.NewBoltVectorIndex(config.VectorDBPath(GetRootDir()), cfg.Index.Collection, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	defer index.Close()

	chk, err := chunker.NewSentenceChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("invalid chunking config: %w", err)
	}

	indexer := usecase.NewIndexer(st, index, embedder, chk, cfg.Index.BatchSize, GetLogger())

	if indexVoteID != "" {
		ini, ok, err := st.GetInitiative(ctx, indexVoteID)
		if err != nil {
			return fmt.Errorf("failed to load initiative: %w", err)
		}
		if !ok {
			return fmt.Errorf("no initiative with vote id %s", indexVoteID)
		}

		chunks, err := indexer.Reindex(ctx, ini)
		if err != nil {
			return fmt.Errorf("re-indexing failed: %w", err)
		}
		fmt.Printf("Re-indexed %s: %d chunks\n", indexVoteID, chunks)
		return nil
	}

	var bar *progressbar.ProgressBar

	progress := func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := indexer.IndexAll(ctx, progress)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Initiatives indexed: %d\n", result.InitiativesIndexed)
	fmt.Printf("  Initiatives skipped: %d (no brochure texts)\n", result.InitiativesSkipped)
	fmt.Printf("  Chunks indexed:      %d\n", result.ChunksIndexed)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nVector index stored at: %s\n", config.VectorDBPath(GetRootDir()))
	return nil
}
