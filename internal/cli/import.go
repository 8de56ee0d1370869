package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"swissvote/config"
	"swissvote/internal/adapter/fs"
	"swissvote/internal/adapter/store"
	"swissvote/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import initiative JSON exports into the metadata store",
	Long: `Import scraped initiative records from JSON files. The path may be a
single file or a directory, in which case all *.json files below it are
loaded. Records are upserted by vote id, so re-importing is safe.

Accepted file shapes:
  {"federal_votes": [ ... ]}   # scraper export wrapper
  [ ... ]                      # bare array of initiatives`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	var files []string
	if info.IsDir() {
		walker := fs.NewWalker([]string{"**/*.json"}, nil)
		files, err = walker.Walk(path)
		if err != nil {
			return fmt.Errorf("failed to scan directory: %w", err)
		}
	} else {
		files = []string{path}
	}

	if len(files) == 0 {
		return fmt.Errorf("no JSON files found under %s", path)
	}

	if err := config.EnsureDataDir(GetRootDir()); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewSQLiteMetadataStore(config.MetadataDBPath(GetRootDir()))
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	imported := 0
	skipped := 0

	for _, file := range files {
		initiatives, err := readInitiatives(file)
		if err != nil {
			fmt.Printf("Warning: %s: %v\n", file, err)
			continue
		}

		for _, ini := range initiatives {
			if ini.VoteID == "" {
				skipped++
				continue
			}
			if err := st.PutInitiative(ctx, ini); err != nil {
				return fmt.Errorf("failed to store %s: %w", ini.VoteID, err)
			}
			imported++
		}
	}

	fmt.Printf("Imported %d initiatives from %d file(s)\n", imported, len(files))
	if skipped > 0 {
		fmt.Printf("Skipped %d record(s) without a vote id\n", skipped)
	}
	return nil
}

// readInitiatives parses one export file, accepting both the wrapped
// and the bare-array shape.
func readInitiatives(path string) ([]domain.Initiative, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		FederalVotes []domain.Initiative `json:"federal_votes"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.FederalVotes) > 0 {
		return wrapper.FederalVotes, nil
	}

	var bare []domain.Initiative
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("not a recognized initiative export: %w", err)
	}
	return bare, nil
}
