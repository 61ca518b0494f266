package contracts

// StrategyID identifies a ranking rule
// ⭐ SSOT: 전략 식별자는 여기서만 정의 (닫힌 집합)
type StrategyID string

const (
	// StrategyNone 선택 없음 → 빈 결과
	StrategyNone StrategyID = ""

	// StrategyBuyHold 장기 보유: 전체 종목, 추천 점수 내림차순 (기본 규칙)
	StrategyBuyHold StrategyID = "buy-hold"

	// StrategyValue 가치 투자: P/E < 15 AND P/B < 2, P/E 오름차순
	StrategyValue StrategyID = "value"

	// StrategyDividends 배당: 배당수익률 > 5, 배당수익률 내림차순
	StrategyDividends StrategyID = "dividends"

	// StrategyGrowth 성장: ROE > 15, ROE 내림차순
	StrategyGrowth StrategyID = "growth"

	// StrategySmallCaps 소형주: 시가총액 < 1000억, 등락률 내림차순
	StrategySmallCaps StrategyID = "small-caps"
)

// AllStrategies returns the selectable strategies in display order
func AllStrategies() []StrategyID {
	return []StrategyID{
		StrategyBuyHold,
		StrategyValue,
		StrategyDividends,
		StrategyGrowth,
		StrategySmallCaps,
	}
}

// String returns the identifier
func (s StrategyID) String() string {
	return string(s)
}

// IsKnown reports whether s is one of the five selectable strategies
func (s StrategyID) IsKnown() bool {
	switch s {
	case StrategyBuyHold, StrategyValue, StrategyDividends, StrategyGrowth, StrategySmallCaps:
		return true
	default:
		return false
	}
}

// ParseStrategy converts raw input into a StrategyID.
// Matching is exact: "Dividends" or " " are unrecognized, and the ranking
// engine applies buy-hold to them. Only "" means no selection.
func ParseStrategy(raw string) (StrategyID, bool) {
	id := StrategyID(raw)
	if id == StrategyNone {
		return StrategyNone, true
	}
	return id, id.IsKnown()
}

// Effective returns the rule actually applied for s
func (s StrategyID) Effective() StrategyID {
	if s == StrategyNone || s.IsKnown() {
		return s
	}
	return StrategyBuyHold
}
