package selection

import (
	"cmp"
	"slices"

	"github.com/wonny/stockpicker/internal/contracts"
	"github.com/wonny/stockpicker/pkg/logger"
)

// MaxResults is the number of picks shown per strategy
const MaxResults = 6

// Strategy thresholds
const (
	DividendYieldMin     = 5.0             // 배당수익률 > 5%
	ValuePEMax           = 15.0            // P/E < 15
	ValuePBMax           = 2.0             // P/B < 2
	GrowthROEMin         = 15.0            // ROE > 15%
	SmallCapMarketCapMax = 100_000_000_000 // 시가총액 < 1000억 (R$ 100B)
)

// rule pairs a filter predicate with a sort comparator.
// keep == nil means every instrument passes.
type rule struct {
	keep    func(contracts.Instrument) bool
	compare func(a, b contracts.Instrument) int
}

// ruleFor maps a strategy to its rule.
// Unrecognized identifiers get the buy-hold rule.
func ruleFor(id contracts.StrategyID) rule {
	switch id {
	case contracts.StrategyDividends:
		return rule{
			keep: func(i contracts.Instrument) bool {
				return i.DividendYield.GreaterThan(DividendYieldMin)
			},
			compare: func(a, b contracts.Instrument) int {
				return cmp.Compare(b.DividendYield.OrZero(), a.DividendYield.OrZero())
			},
		}
	case contracts.StrategyValue:
		return rule{
			keep: func(i contracts.Instrument) bool {
				return i.PE.LessThan(ValuePEMax) && i.PB.LessThan(ValuePBMax)
			},
			compare: func(a, b contracts.Instrument) int {
				return cmp.Compare(a.PE.OrZero(), b.PE.OrZero())
			},
		}
	case contracts.StrategyGrowth:
		return rule{
			keep: func(i contracts.Instrument) bool {
				return i.ROE.GreaterThan(GrowthROEMin)
			},
			compare: func(a, b contracts.Instrument) int {
				return cmp.Compare(b.ROE.OrZero(), a.ROE.OrZero())
			},
		}
	case contracts.StrategySmallCaps:
		return rule{
			keep: func(i contracts.Instrument) bool {
				return i.MarketCap < SmallCapMarketCapMax
			},
			compare: func(a, b contracts.Instrument) int {
				return cmp.Compare(b.ChangePercent, a.ChangePercent)
			},
		}
	default:
		return rule{
			compare: func(a, b contracts.Instrument) int {
				return cmp.Compare(b.Score, a.Score)
			},
		}
	}
}

// Rank filters and orders instruments for a strategy and keeps the top MaxResults.
// ⭐ SSOT: 전략별 필터/정렬 로직은 여기서만
//
// The input slice is never modified. Ties keep dataset order.
// StrategyNone yields an empty (non-nil) slice.
func Rank(instruments []contracts.Instrument, id contracts.StrategyID) []contracts.Instrument {
	if id == contracts.StrategyNone {
		return []contracts.Instrument{}
	}

	r := ruleFor(id)

	ranked := make([]contracts.Instrument, 0, len(instruments))
	for _, inst := range instruments {
		if r.keep == nil || r.keep(inst) {
			ranked = append(ranked, inst)
		}
	}

	slices.SortStableFunc(ranked, r.compare)

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return slices.Clip(ranked)
}

// Ranker wraps Rank with logging for service use
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{logger: log}
}

// Rank runs the ranking engine and logs a summary
func (r *Ranker) Rank(instruments []contracts.Instrument, id contracts.StrategyID) []contracts.Instrument {
	ranked := Rank(instruments, id)

	fields := map[string]interface{}{
		"strategy": id.String(),
		"input":    len(instruments),
		"picked":   len(ranked),
	}
	if len(ranked) > 0 {
		fields["top"] = ranked[0].Symbol
	}
	r.logger.WithFields(fields).Debug("Ranking completed")

	return ranked
}
