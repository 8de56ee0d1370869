package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"swissvote/config"
	"swissvote/internal/adapter/store"
	"swissvote/internal/port"
	"swissvote/internal/usecase"
)

var (
	queryText   string
	queryLang   string
	queryTopK   int
	queryJSON   bool
	queryNoMeta bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve brochure passages relevant to a question",
	Long: `Query embeds the question, searches the vector index with language
fallback and prints the assembled context block. With --json the full
result including similarities and initiative metadata is printed.

Examples:
  swissvote query -q "Worum geht es bei der Biodiversitätsinitiative?"
  swissvote query -q "initiative biodiversité" --lang fr -k 3
  swissvote query -q "Rente" --json`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "question to search for (required)")
	queryCmd.Flags().StringVar(&queryLang, "lang", "", "query language: de, fr or it (default: auto-detect)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full result as JSON")
	queryCmd.Flags().BoolVar(&queryNoMeta, "no-metadata", false, "skip initiative metadata enrichment")
	queryCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(queryCmd)
}

// openPipeline wires the retrieval pipeline against the on-disk stores.
// The returned cleanup closes both stores.
func openPipeline() (*usecase.Pipeline, port.MetadataStore, func(), error) {
	cfg := GetConfig()

	st, err := store.NewSQLiteMetadataStore(config.MetadataDBPath(GetRootDir()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open metadata store: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	index, err := store.NewBoltVectorIndex(config.VectorDBPath(GetRootDir()), cfg.Index.Collection, embedder.Dimension())
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	log := GetLogger()
	retriever := usecase.NewRetriever(index, embedder, cfg.Retrieve.Languages, cfg.Retrieve.ScoreThreshold, log)
	enricher := usecase.NewEnricher(st, log)
	pipeline := usecase.NewPipeline(retriever, enricher, usecase.NewAssembler(), log)

	cleanup := func() {
		index.Close()
		st.Close()
	}
	return pipeline, st, cleanup, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	pipeline, _, cleanup, err := openPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	topK := queryTopK
	if topK <= 0 {
		topK = cfg.Retrieve.TopK
	}

	lang := queryLang
	if lang == "" {
		lang = detector.DetectLanguage(queryText)
	}

	result := pipeline.QueryWithContext(cmd.Context(), queryText, lang, topK, !queryNoMeta)

	if queryJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Language: %s   Chunks: %d\n\n", result.Language, result.ContextCount)
	fmt.Println(result.FormattedContext)
	return nil
}
