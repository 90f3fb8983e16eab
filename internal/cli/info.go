package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"osindexer/internal/adapter/search"
	"osindexer/internal/usecase"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show remote index settings, mappings and document count",
	Long: `Connect to the configured OpenSearch endpoint and print the settings
and mappings of every index, plus the document count of the configured
index. Read-only; nothing is modified.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := GetConfig()

	awsCfg, err := loadAWSConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	index, err := search.NewClient(awsCfg, cfg.OpenSearchEndpoint)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	report, err := usecase.NewReportUseCase(index, cfg.IndexName).Report(ctx)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if infoJSON {
		out := struct {
			DocCount int            `json:"doc_count"`
			Indices  map[string]any `json:"indices"`
		}{
			DocCount: report.DocCount,
			Indices:  make(map[string]any),
		}
		for _, info := range report.Indices {
			out.Indices[info.Name] = map[string]json.RawMessage{
				"settings": info.Settings,
				"mappings": info.Mappings,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, info := range report.Indices {
		fmt.Printf("Index: %s\n", info.Name)
		fmt.Printf("Settings: %s\n", string(info.Settings))
		fmt.Printf("Mappings: %s\n", string(info.Mappings))
		fmt.Println()
	}
	fmt.Printf("Documents in %s: %d\n", cfg.IndexName, report.DocCount)

	return nil
}
