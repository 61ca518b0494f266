package contracts

import "time"

// Pick is a ranked instrument inside a recommendation
type Pick struct {
	Rank       int        `json:"rank"` // 1-based
	Instrument Instrument `json:"instrument"`
}

// Recommendation is the ranked output for one strategy selection
// ⭐ SSOT: Selection → API/CLI 추천 결과 전달
type Recommendation struct {
	Requested   string     `json:"requested"`
	Strategy    StrategyID `json:"strategy"` // 실제 적용된 규칙
	Fallback    bool       `json:"fallback"` // 알 수 없는 전략 → buy-hold
	Picks       []Pick     `json:"picks"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// NewRecommendation numbers the ranked instruments starting at 1
func NewRecommendation(requested string, applied StrategyID, ranked []Instrument) *Recommendation {
	picks := make([]Pick, 0, len(ranked))
	for i, inst := range ranked {
		picks = append(picks, Pick{Rank: i + 1, Instrument: inst})
	}
	return &Recommendation{
		Requested:   requested,
		Strategy:    applied,
		Picks:       picks,
		GeneratedAt: time.Now(),
	}
}

// Symbols returns pick symbols in rank order
func (r *Recommendation) Symbols() []string {
	symbols := make([]string, 0, len(r.Picks))
	for _, p := range r.Picks {
		symbols = append(symbols, p.Instrument.Symbol)
	}
	return symbols
}

// IsEmpty reports whether nothing was selected or nothing matched
func (r *Recommendation) IsEmpty() bool {
	return len(r.Picks) == 0
}
