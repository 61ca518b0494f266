package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpicker/internal/recommend"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "전략별 추천 종목 출력",
	Long: `선택한 전략으로 카탈로그를 필터링/정렬하여 상위 종목을 출력합니다.

Strategies:
  dividends   배당수익률 > 5%, 배당수익률 내림차순
  value       P/L < 15 그리고 P/VP < 2, P/L 오름차순
  growth      ROE > 15%, ROE 내림차순
  small-caps  시가총액 < R$ 100B, 등락률 내림차순
  buy-hold    전체, 점수 내림차순

알 수 없는 전략은 buy-hold 로 대체됩니다.

Example:
  go run ./cmd/picker recommend --strategy dividends
  go run ./cmd/picker recommend --strategy value --json`,
	RunE: runRecommend,
}

var (
	recommendStrategy string
	recommendJSON     bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(&recommendStrategy, "strategy", "s", "", "strategy id")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "JSON 출력")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx, stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	rec, err := rt.service.Recommend(ctx, recommendStrategy)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	view := rt.service.View(rec)

	out := cmd.OutOrStdout()
	if recommendJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	printView(out, view)
	return nil
}

// printView renders a recommendation as a table
func printView(w io.Writer, view recommend.View) {
	if len(view.Cards) == 0 {
		PrintHeader(w, "Recomendações")
		PrintInfo(w, view.Message)
		return
	}

	PrintHeader(w, view.Heading)
	if view.Descriptor != nil {
		PrintKeyValue(w, "Critério", view.Descriptor.Criteria, 8)
	}
	if view.Fallback {
		PrintWarning(w, fmt.Sprintf("unknown strategy %q, showing %s", view.Requested, view.Strategy))
	}
	PrintSeparator(w)

	widths := []int{3, 6, 16, 10, 7, 7, 6, 5, 6, 6}
	PrintTableHeader(w, []string{"#", "Symbol", "Name", "Price", "Chg", "Cap", "DY", "P/L", "ROE", "Score"}, widths)
	for _, c := range view.Cards {
		PrintTableRow(w, []string{
			c.Badge,
			c.Symbol,
			truncate(c.Name, widths[2]),
			c.Price,
			c.ChangePercent,
			c.MarketCap,
			dash(c.DividendYield),
			dash(c.PE),
			dash(c.ROE),
			c.Score,
		}, widths)
	}

	PrintSeparator(w)
	fmt.Fprintln(w, view.Disclaimer)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
