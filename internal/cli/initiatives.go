package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"swissvote/config"
	"swissvote/internal/adapter/store"
	"swissvote/internal/domain"
)

var searchLimit int

var initiativesCmd = &cobra.Command{
	Use:   "initiatives",
	Short: "Inspect the imported initiative records",
}

var initiativesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all imported initiatives",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLiteMetadataStore(config.MetadataDBPath(GetRootDir()))
		if err != nil {
			return fmt.Errorf("failed to open metadata store: %w", err)
		}
		defer st.Close()

		initiatives, err := st.ListInitiatives(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list initiatives: %w", err)
		}

		printInitiatives(initiatives)
		return nil
	},
}

var initiativesSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search initiatives by title, keyword or policy area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLiteMetadataStore(config.MetadataDBPath(GetRootDir()))
		if err != nil {
			return fmt.Errorf("failed to open metadata store: %w", err)
		}
		defer st.Close()

		initiatives, err := st.SearchInitiatives(cmd.Context(), args[0], searchLimit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(initiatives) == 0 {
			fmt.Println("No matching initiatives.")
			return nil
		}
		printInitiatives(initiatives)
		return nil
	},
}

func init() {
	initiativesSearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum results")
	initiativesCmd.AddCommand(initiativesListCmd)
	initiativesCmd.AddCommand(initiativesSearchCmd)
	rootCmd.AddCommand(initiativesCmd)
}

func printInitiatives(initiatives []domain.Initiative) {
	for _, ini := range initiatives {
		languages := ""
		for _, lang := range domain.SupportedLanguages {
			if _, ok := ini.BrochureTexts[lang]; ok {
				languages += lang + " "
			}
		}
		if languages == "" {
			languages = "-"
		}

		fmt.Printf("%-6s %-12s %-10s %s\n", ini.VoteID, ini.VoteDate, languages, ini.DisplayTitle())
	}
	fmt.Printf("\n%d initiative(s)\n", len(initiatives))
}
