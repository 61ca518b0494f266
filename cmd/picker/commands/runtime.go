package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wonny/stockpicker/internal/catalog"
	"github.com/wonny/stockpicker/internal/recommend"
	"github.com/wonny/stockpicker/internal/strategyconfig"
	"github.com/wonny/stockpicker/pkg/config"
	"github.com/wonny/stockpicker/pkg/database"
	"github.com/wonny/stockpicker/pkg/logger"
	"github.com/wonny/stockpicker/pkg/redis"
)

// cachePrefix namespaces every Redis key of this service
const cachePrefix = "picker"

// runtime holds the wired dependencies shared by commands
type runtime struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *database.DB // CATALOG_SOURCE=postgres 일 때만
	redis      *redis.Client
	catalog    *catalog.Catalog
	index      *catalog.SearchIndex
	strategies *strategyconfig.Config
	service    *recommend.Service
}

// loadConfig reads env config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if catalogSource != "" {
		cfg.Catalog.Source = catalogSource
	}
	if strategyConfig != "" {
		cfg.Catalog.StrategyConfig = strategyConfig
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// bootstrap wires config, logger, catalog, strategies, cache and service.
// logOut receives log lines (stderr for print commands, stdout for the server).
func bootstrap(ctx context.Context, logOut io.Writer) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg: cfg,
		log: logger.NewWithWriter(cfg, logOut),
	}

	if err := rt.init(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) init(ctx context.Context) error {
	src, err := rt.catalogSource(ctx)
	if err != nil {
		return err
	}

	rt.catalog, err = catalog.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	rt.index, err = catalog.NewSearchIndex(rt.catalog)
	if err != nil {
		return fmt.Errorf("build search index: %w", err)
	}

	rt.strategies, err = strategyconfig.LoadOrDefault(rt.cfg.Catalog.StrategyConfig)
	if err != nil {
		return fmt.Errorf("load strategy config: %w", err)
	}
	for _, w := range strategyconfig.Warn(rt.strategies) {
		rt.log.WithField("code", w.Code).Warn(w.Message)
	}

	rt.redis, err = redis.New(ctx, rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	rt.service = recommend.NewService(recommend.Config{
		Catalog:    rt.catalog,
		Index:      rt.index,
		Strategies: rt.strategies,
		Cache:      redis.NewCache(rt.redis, cachePrefix),
		CacheTTL:   rt.cfg.Cache.TTL,
	}, rt.log)

	rt.log.WithFields(map[string]interface{}{
		"source":      rt.catalog.Source(),
		"instruments": rt.catalog.Len(),
		"fingerprint": rt.catalog.Fingerprint(),
		"redis":       rt.redis.Enabled(),
	}).Info("Catalog loaded")

	return nil
}

// catalogSource opens the configured instrument source
func (rt *runtime) catalogSource(ctx context.Context) (catalog.Source, error) {
	switch rt.cfg.Catalog.Source {
	case config.CatalogPostgres:
		db, err := database.New(ctx, rt.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.db = db
		return catalog.NewPostgresSource(db.Pool), nil
	case config.CatalogEmbedded, "":
		return catalog.NewEmbeddedSource(), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", rt.cfg.Catalog.Source)
	}
}

// Close releases every opened resource
func (rt *runtime) Close() {
	if rt.index != nil {
		if err := rt.index.Close(); err != nil {
			rt.log.WithError(err).Warn("Failed to close search index")
		}
	}
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			rt.log.WithError(err).Warn("Failed to close redis")
		}
	}
	if rt.db != nil {
		rt.db.Close()
	}
}

// stderr is where print commands send their logs
var stderr io.Writer = os.Stderr
