package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	catalogSource  string
	strategyConfig string
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "picker",
	Short: "BOVESPA 전략별 종목 추천",
	Long: `Stock Picker CLI

BOVESPA 종목 카탈로그를 투자 전략(배당, 가치, 성장, 소형주, 장기보유)별로
필터링/정렬하여 상위 6개 종목을 추천합니다.

Usage:
  go run ./cmd/picker [command]

Examples:
  go run ./cmd/picker api
  go run ./cmd/picker recommend --strategy dividends
  go run ./cmd/picker strategies
  go run ./cmd/picker search banco
  go run ./cmd/picker catalog check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags (환경변수보다 우선)
	rootCmd.PersistentFlags().StringVar(&catalogSource, "catalog", "", "catalog source (embedded|postgres), default CATALOG_SOURCE")
	rootCmd.PersistentFlags().StringVar(&strategyConfig, "strategy-config", "", "strategy descriptor YAML, default STRATEGY_CONFIG or embedded")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
