package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/stockpicker/internal/api"
	"github.com/wonny/stockpicker/internal/api/handlers"
	"github.com/wonny/stockpicker/internal/interaction"
	"github.com/wonny/stockpicker/internal/scheduler"
	"github.com/wonny/stockpicker/internal/scheduler/jobs"
	"github.com/wonny/stockpicker/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST/WebSocket API 서버와 캐시 워밍 스케줄러를 시작합니다.

Endpoints:
  GET  /health                              - Health check
  GET  /api/strategies                      - 전략 목록 + 화면 문구
  GET  /api/strategies/{id}/recommendations - 전략별 추천
  GET  /api/recommendations?strategy=<id>   - 전략별 추천 (query)
  GET  /api/instruments                     - 전체 종목
  GET  /api/instruments/search?q=<text>     - 종목 검색
  GET  /api/instruments/{symbol}            - 종목 상세
  GET  /api/selection                       - 현재 선택 상태
  POST /api/selection                       - 전략 선택
  GET  /ws/selection                        - 선택 상태 스트림

Example:
  go run ./cmd/picker api
  go run ./cmd/picker api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stock Picker API Server ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Config, logger, catalog, cache, service
	rt, err := bootstrap(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	if apiPort != "" {
		cfg.Port = apiPort
	}
	log := rt.log

	// 2. Selection state
	selector := interaction.NewSelector(cfg.AnalyzeDelay, log)
	defer selector.Close()

	// 3. Rate limiter (Redis 공유 윈도우, 아니면 프로세스 로컬)
	var limiter api.Limiter
	if rt.redis.Enabled() {
		limiter = api.NewRedisLimiter(redis.NewRateLimiter(rt.redis, cachePrefix), cfg.RateLimit.RPS)
	} else {
		limiter = api.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// 4. Router + server
	router := api.NewRouter(api.Handlers{
		Strategy:       handlers.NewStrategyHandler(rt.service, log),
		Recommendation: handlers.NewRecommendationHandler(rt.service, log),
		Instrument:     handlers.NewInstrumentHandler(rt.service, log),
		Selection:      handlers.NewSelectionHandler(selector, rt.service, log),
	}, limiter, log)
	server := api.New(cfg, log, router)

	// 5. Scheduler (Redis 사용 시에만 의미 있음)
	var sched *scheduler.Scheduler
	if rt.redis.Enabled() {
		sched = scheduler.New(log, scheduler.DefaultOptions())
		if err := sched.AddJob(jobs.NewCacheWarmJob(rt.service, cfg.Cache.WarmSchedule, log)); err != nil {
			return fmt.Errorf("schedule cache warm: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		// 시작 시 1회 워밍
		if err := sched.RunJob("cache_warm"); err != nil {
			log.WithError(err).Warn("Initial cache warm not started")
		}
	}

	// 6. Start server
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
	defer cancel()

	// WebSocket 구독 먼저 종료
	selector.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
