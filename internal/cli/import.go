package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"selfquiz-service/internal/config"
)

// NewImportCmd merges a JSON question file into the configured store, the
// command-line counterpart of the POST /import endpoint.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import questions from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, args[0])
		},
	}
}

func runImport(ctx context.Context, configPath, file string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	_, importer, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := importer.Import(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d questions, updated %d, skipped %d\n", stats.Imported, stats.Updated, stats.Skipped)
	return nil
}
