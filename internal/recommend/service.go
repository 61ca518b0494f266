package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/wonny/stockpicker/internal/catalog"
	"github.com/wonny/stockpicker/internal/contracts"
	"github.com/wonny/stockpicker/internal/presentation"
	"github.com/wonny/stockpicker/internal/selection"
	"github.com/wonny/stockpicker/internal/strategyconfig"
	"github.com/wonny/stockpicker/pkg/logger"
	"github.com/wonny/stockpicker/pkg/redis"
)

// ErrNotFound is returned when a requested instrument does not exist
var ErrNotFound = errors.New("not found")

// Service answers strategy selections with ranked recommendations
// ⭐ SSOT: 카탈로그 + 랭킹 + 캐시 조합은 여기서만
type Service struct {
	catalog    *catalog.Catalog
	index      *catalog.SearchIndex
	strategies *strategyconfig.Config
	ranker     *selection.Ranker
	formatter  *presentation.Formatter
	cache      *redis.Cache
	ttl        time.Duration
	logger     *logger.Logger
}

// Config bundles the service dependencies
type Config struct {
	Catalog    *catalog.Catalog
	Index      *catalog.SearchIndex
	Strategies *strategyconfig.Config
	Cache      *redis.Cache // nil → no caching
	CacheTTL   time.Duration
}

// NewService creates a new recommendation service
func NewService(cfg Config, log *logger.Logger) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	cache := cfg.Cache
	if cache == nil {
		cache = redis.NewCache(redis.NewFromRedis(nil), "")
	}
	cache = cache.WithLogger(log)

	return &Service{
		catalog:    cfg.Catalog,
		index:      cfg.Index,
		strategies: cfg.Strategies,
		ranker:     selection.NewRanker(log),
		formatter:  presentation.NewFormatter(cfg.Strategies.Language(), currencyOf(cfg.Strategies)),
		cache:      cache,
		ttl:        ttl,
		logger:     log,
	}
}

// Recommend ranks the catalog for a raw strategy identifier.
// Empty input yields no picks; unknown identifiers get buy-hold with Fallback set.
func (s *Service) Recommend(ctx context.Context, raw string) (*contracts.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, known := contracts.ParseStrategy(raw)
	applied := id.Effective()

	if applied == contracts.StrategyNone {
		return contracts.NewRecommendation(raw, contracts.StrategyNone, nil), nil
	}

	ranked, hit, err := redis.GetOrSet(ctx, s.cache, s.cacheKey(applied), s.ttl, func() ([]contracts.Instrument, error) {
		return s.ranker.Rank(s.catalog.Instruments(), applied), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank %s: %w", applied, err)
	}

	rec := contracts.NewRecommendation(raw, applied, ranked)
	rec.Fallback = !known

	s.logger.WithFields(map[string]interface{}{
		"requested": raw,
		"strategy":  applied.String(),
		"fallback":  rec.Fallback,
		"picks":     len(rec.Picks),
		"cache_hit": hit,
	}).Debug("Recommendation served")

	return rec, nil
}

// Warm recomputes and caches every strategy's ranking
func (s *Service) Warm(ctx context.Context) (int, error) {
	if !s.cache.Enabled() {
		return 0, nil
	}

	warmed := 0
	for _, id := range contracts.AllStrategies() {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}

		ranked := selection.Rank(s.catalog.Instruments(), id)
		if err := s.cache.Set(ctx, s.cacheKey(id), ranked, s.ttl); err != nil {
			return warmed, fmt.Errorf("failed to warm %s: %w", id, err)
		}
		warmed++
	}

	return warmed, nil
}

// Invalidate drops every cached ranking
func (s *Service) Invalidate(ctx context.Context) (int64, error) {
	return s.cache.DeletePattern(ctx, redis.RecommendationPattern())
}

func (s *Service) cacheKey(id contracts.StrategyID) string {
	return redis.RecommendationKey(s.catalog.Fingerprint(), id.String())
}

// Strategies returns the configured descriptors in display order
func (s *Service) Strategies() []strategyconfig.Descriptor {
	return slices.Clone(s.strategies.Strategies)
}

// Meta returns locale, title and labels
func (s *Service) Meta() strategyconfig.Meta {
	return s.strategies.Meta
}

// Descriptor returns the display info of one strategy
func (s *Service) Descriptor(id contracts.StrategyID) (strategyconfig.Descriptor, bool) {
	return s.strategies.Descriptor(id)
}

// Instruments returns the whole catalog in dataset order
func (s *Service) Instruments() []contracts.Instrument {
	return s.catalog.Instruments()
}

// Instrument looks up one instrument by symbol
func (s *Service) Instrument(symbol string) (contracts.Instrument, error) {
	inst, err := s.catalog.BySymbol(symbol)
	if err != nil {
		return contracts.Instrument{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return inst, nil
}

// Search runs a full-text catalog search
func (s *Service) Search(q string, limit int) ([]catalog.SearchHit, error) {
	if s.index == nil {
		return []catalog.SearchHit{}, nil
	}
	return s.index.Search(q, limit)
}

// Formatter returns the locale formatter used for cards
func (s *Service) Formatter() *presentation.Formatter {
	return s.formatter
}

// Fingerprint identifies the served dataset
func (s *Service) Fingerprint() string {
	return s.catalog.Fingerprint()
}
