package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "추천 캐시 관리 (REDIS_ENABLED=true)",
	Long: `Redis 에 저장된 전략별 추천 결과를 관리합니다.

Example:
  go run ./cmd/picker cache warm
  go run ./cmd/picker cache clear`,
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "모든 전략의 추천을 미리 계산하여 캐시",
	RunE:  runCacheWarm,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "캐시된 추천 삭제",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheWarm(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd.Context(), stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if !rt.redis.Enabled() {
		PrintWarning(out, "Redis is disabled (REDIS_ENABLED=false), nothing to warm")
		return nil
	}

	n, err := rt.service.Warm(cmd.Context())
	if err != nil {
		return fmt.Errorf("warm: %w", err)
	}
	PrintSuccess(out, fmt.Sprintf("Warmed %d strategies (fingerprint %s)", n, rt.service.Fingerprint()))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd.Context(), stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if !rt.redis.Enabled() {
		PrintWarning(out, "Redis is disabled (REDIS_ENABLED=false), nothing to clear")
		return nil
	}

	n, err := rt.service.Invalidate(cmd.Context())
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	PrintSuccess(out, fmt.Sprintf("Deleted %d cached recommendations", n))
	return nil
}
