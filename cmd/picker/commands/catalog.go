package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpicker/internal/catalog"
	"github.com/wonny/stockpicker/internal/strategyconfig"
	"github.com/wonny/stockpicker/pkg/config"
	"github.com/wonny/stockpicker/pkg/database"
	"github.com/wonny/stockpicker/pkg/logger"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "종목 카탈로그 관리",
	Long: `종목 카탈로그를 검증하거나 PostgreSQL 에 적재합니다.

Example:
  go run ./cmd/picker catalog check
  go run ./cmd/picker catalog check --catalog postgres
  go run ./cmd/picker catalog seed --file ./instruments.yaml`,
}

// catalogCheckCmd validates the configured source
var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "카탈로그 + 전략 설정 검증",
	RunE:  runCatalogCheck,
}

// catalogSeedCmd loads a YAML dataset into PostgreSQL
var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "YAML 카탈로그를 PostgreSQL 에 적재 (기존 데이터 교체)",
	RunE:  runCatalogSeed,
}

var seedFile string

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
	catalogCmd.AddCommand(catalogSeedCmd)

	catalogSeedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "instrument YAML (default embedded dataset)")
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd.Context(), stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	hash, err := strategyconfig.Hash(rt.strategies)
	if err != nil {
		return fmt.Errorf("hash strategy config: %w", err)
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Catalog check")
	PrintKeyValue(out, "Source", rt.catalog.Source(), 12)
	PrintKeyValue(out, "Instruments", strconv.Itoa(rt.catalog.Len()), 12)
	PrintKeyValue(out, "Fingerprint", rt.catalog.Fingerprint(), 12)
	PrintKeyValue(out, "Strategies", strconv.Itoa(len(rt.strategies.Strategies)), 12)
	PrintKeyValue(out, "Config hash", hash[:16], 12)
	PrintKeyValue(out, "Locale", rt.strategies.Language().String(), 12)
	PrintSeparator(out)

	warnings := strategyconfig.Warn(rt.strategies)
	for _, w := range warnings {
		PrintWarning(out, w.Code+": "+w.Message)
	}
	PrintSuccess(out, "Catalog and strategy config are valid")
	return nil
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cfg, stderr)

	var src catalog.Source = catalog.NewEmbeddedSource()
	if seedFile != "" {
		fileSrc, err := catalog.NewFileSource(seedFile)
		if err != nil {
			return err
		}
		src = fileSrc
	}

	// 적재 전에 검증
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("load %s catalog: %w", src.Name(), err)
	}

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required (CATALOG_SOURCE=%s)", config.CatalogPostgres)
	}
	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	pg := catalog.NewPostgresSource(db.Pool)
	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := pg.Replace(ctx, cat.Instruments()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"source":      src.Name(),
		"instruments": cat.Len(),
		"fingerprint": cat.Fingerprint(),
	}).Info("Catalog seeded")

	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Seeded %d instruments from %s", cat.Len(), src.Name()))
	return nil
}
