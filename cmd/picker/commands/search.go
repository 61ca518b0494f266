package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpicker/internal/catalog"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "종목 검색 (심볼, 이름, 섹터, 추천 사유)",
	Example: `  go run ./cmd/picker search petr
  go run ./cmd/picker search "papel e celulose" --limit 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", catalog.DefaultSearchLimit, "최대 결과 수")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}

	rt, err := bootstrap(cmd.Context(), stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	q := strings.Join(args, " ")
	hits, err := rt.service.Search(q, searchLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, fmt.Sprintf("Search: %q (%d)", q, len(hits)))
	if len(hits) == 0 {
		PrintInfo(out, "no match")
		return nil
	}

	f := rt.service.Formatter()
	widths := []int{6, 16, 16, 10, 6}
	PrintTableHeader(out, []string{"Symbol", "Name", "Sector", "Price", "Score"}, widths)
	for _, h := range hits {
		PrintTableRow(out, []string{
			h.Instrument.Symbol,
			truncate(h.Instrument.Name, widths[1]),
			truncate(h.Instrument.Sector, widths[2]),
			f.Currency(h.Instrument.Price),
			fmt.Sprintf("%.2f", h.Score),
		}, widths)
	}
	return nil
}
