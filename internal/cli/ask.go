package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"swissvote/internal/adapter/llm"
	"swissvote/internal/usecase"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the voting assistant a question",
	Long: `Ask sends the question to the Apertus model. Voting-related questions
are first grounded with passages retrieved from the indexed brochures;
other questions go to the model directly.

Requires the API key environment variable from the llm config section
(default SWISS_AI_PLATFORM_API_KEY).

Examples:
  swissvote ask "Worum geht es bei der Biodiversitätsinitiative?"
  swissvote ask "Quels sont les arguments contre l'initiative?" --sources`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "print the vote ids the answer was grounded on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	question := strings.Join(args, " ")

	client, err := llm.NewApertusClient(cfg.LLM.APIKeyEnv, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	pipeline, st, cleanup, err := openPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	chat := usecase.NewChatService(pipeline, client, detector, st, cfg.Retrieve.TopK, GetLogger())

	answer, err := chat.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Println(answer.Answer)

	if askShowSources && answer.UsedRAG {
		ids := answer.Rag.VoteIDs()
		if len(ids) > 0 {
			fmt.Printf("\nSources: votes %s\n", strings.Join(ids, ", "))
		}
	}
	return nil
}
