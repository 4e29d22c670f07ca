package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/services"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

var (
	searchPage          int
	searchLimit         int
	searchSort          string
	searchFacets        []string
	searchParams        []string
	searchAPIAccessible bool
	searchOutput        string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the dataset catalogue",
	Long: `Searches datasets by text and facets, one page at a time.

Facets narrow the results, for example --facet organization=my-org. Repeat
--facet to select several values. --param passes extra query parameters to
the search endpoint unchanged.`,
	Example: `  discovery search trips --facet organization=my-org --sort name_asc
  discovery search --page 2 --limit 25 --api-accessible`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "page number, starting at 1")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "results per page (default from search.page_size)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort order, for example name_asc")
	searchCmd.Flags().StringArrayVar(&searchFacets, "facet", nil, "facet filter as KEY=VALUE (repeatable)")
	searchCmd.Flags().StringArrayVar(&searchParams, "param", nil, "extra query parameter as KEY=VALUE (repeatable)")
	searchCmd.Flags().BoolVar(&searchAPIAccessible, "api-accessible", false, "only datasets accessible through the API")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", formatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if datasetService == nil {
		return errors.New("dataset service not configured")
	}
	if err := validateFormat(searchOutput); err != nil {
		return err
	}

	facets, err := parseFacets(searchFacets)
	if err != nil {
		return err
	}
	extra, err := parseParams(searchParams)
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit == 0 {
		limit = configuredPageSize()
	}

	params := domain.DatasetSearchParams{
		Page:          searchPage,
		SearchText:    strings.Join(args, " "),
		SortOrder:     searchSort,
		Facets:        facets,
		APIAccessible: searchAPIAccessible,
	}
	req := params.Request(limit)
	req.Extra = extra

	logger.Section("Search")
	runner := services.NewRunner(queryService, datasetService)
	res := <-runner.Search(cmd.Context(), req)
	if res.Err != nil {
		return fmt.Errorf("search failed: %w", res.Err)
	}

	switch o := res.Value.(type) {
	case domain.DatasetListUpdated:
		return outputSearchPage(cmd, o.Page)
	case domain.DatasetListFailed:
		return fmt.Errorf("search failed: %w", o.Err)
	default:
		return fmt.Errorf("search failed: unexpected outcome %T", res.Value)
	}
}

func configuredPageSize() int {
	if settingsService == nil {
		return domain.DefaultPageSize
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.DefaultPageSize
	}
	return settings.Search.PageSize
}

func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: expected KEY=VALUE, got %q", domain.ErrInvalidInput, s)
	}
	return key, strings.TrimSpace(value), nil
}

func parseFacets(pairs []string) (domain.FacetSelection, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	facets := make(domain.FacetSelection)
	for _, p := range pairs {
		key, value, err := splitPair(p)
		if err != nil {
			return nil, err
		}
		facets[key] = append(facets[key], value)
	}
	return facets, nil
}

func parseParams(pairs []string) (domain.PassThrough, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	extra := make(domain.PassThrough)
	for _, p := range pairs {
		key, value, err := splitPair(p)
		if err != nil {
			return nil, err
		}
		extra[key] = value
	}
	return extra, nil
}

func outputSearchPage(cmd *cobra.Command, page domain.SearchPage) error {
	if searchOutput != formatTable {
		return writeStructured(cmd.OutOrStdout(), searchOutput, page)
	}

	if len(page.Results) == 0 {
		cmd.Println("No datasets found.")
		return nil
	}

	rows := make([][]string, len(page.Results))
	for i, d := range page.Results {
		rows[i] = []string{
			d.ID,
			truncate(d.DisplayTitle(), 48),
			d.Organization.Title,
			strings.Join(d.FileTypes, ", "),
		}
	}
	cmd.Println(renderTable([]string{"ID", "Title", "Organization", "Formats"}, rows))

	meta := page.Metadata
	cmd.Printf("Showing %d-%d of %d datasets\n", meta.Offset+1, meta.Offset+len(page.Results), meta.TotalDatasets)
	if page.HasNext() {
		next := 2
		if meta.Limit > 0 {
			next = meta.Offset/meta.Limit + 2
		}
		cmd.Printf("Next page: --page %d\n", next)
	}

	if len(meta.Facets) > 0 {
		cmd.Println()
		cmd.Println("Facets:")
		names := make([]string, 0, len(meta.Facets))
		for name := range meta.Facets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			counts := make([]string, len(meta.Facets[name]))
			for i, fc := range meta.Facets[name] {
				counts[i] = fmt.Sprintf("%s (%d)", fc.Name, fc.Count)
			}
			cmd.Printf("  %s: %s\n", name, strings.Join(counts, ", "))
		}
	}
	return nil
}
