package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

var (
	searchLimit         int
	searchJSON          bool
	searchDocumentID    int64
	searchFusion        string
	searchVectorWeight  float64
	searchKeywordWeight float64
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Performs hybrid search across ingested documents.
Combines keyword (BM25) and semantic (vector) retrieval, fused into a
single ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().Int64Var(&searchDocumentID, "document", 0, "restrict search to one document")
	searchCmd.Flags().StringVar(&searchFusion, "fusion", "", "fusion method: weighted, rrf or max")
	searchCmd.Flags().Float64Var(&searchVectorWeight, "vector-weight", 0, "weight of the vector ranking")
	searchCmd.Flags().Float64Var(&searchKeywordWeight, "keyword-weight", 0, "weight of the keyword ranking")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		UserID:        userIDFlag,
		DocumentID:    searchDocumentID,
		Limit:         searchLimit,
		VectorWeight:  searchVectorWeight,
		KeywordWeight: searchKeywordWeight,
		Fusion:        domain.FusionMethod(searchFusion),
	}

	results, err := searchService.HybridSearch(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].DocumentTitle
		if title == "" {
			title = fmt.Sprintf("document %d", results[i].DocumentID)
		}

		cmd.Printf("  [%d] %s %s\n", i+1,
			styleTitle.Render(title),
			styleScore.Render(fmt.Sprintf("(%.3f)", results[i].HybridScore)))
		if results[i].SectionHeader != "" {
			cmd.Printf("      %s\n", styleMuted.Render(results[i].SectionHeader))
		}
		cmd.Println(styleSnippet.Render(snippet(results[i].Content, 160)))
		cmd.Println()
	}

	return nil
}

// snippet truncates content for single-result display.
func snippet(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
