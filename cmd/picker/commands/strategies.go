package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// strategiesCmd represents the strategies command
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "전략 목록 출력",
	Example: `  go run ./cmd/picker strategies
  go run ./cmd/picker strategies --strategy-config ./strategies.yaml`,
	RunE: runStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd.Context(), stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	meta := rt.service.Meta()

	PrintHeader(out, meta.Title)
	fmt.Fprintln(out, meta.Subtitle)
	PrintSeparator(out)

	widths := []int{10, 18, 40}
	PrintTableHeader(out, []string{"ID", "Name", "Criteria"}, widths)
	for _, d := range rt.service.Strategies() {
		PrintTableRow(out, []string{d.ID.String(), d.Icon + " " + d.Name, d.Criteria}, widths)
	}
	return nil
}
