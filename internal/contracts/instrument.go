package contracts

// Instrument is a single tradable security in the catalog
// ⭐ SSOT: Catalog → Selection → Presentation 종목 데이터 전달
//
// Optional ratios use Metric so "absent" and "zero" stay distinct.
type Instrument struct {
	Symbol        string  `yaml:"symbol" json:"symbol" validate:"required"`
	Name          string  `yaml:"name" json:"name" validate:"required"`
	Price         float64 `yaml:"price" json:"price" validate:"gte=0"`
	Change        float64 `yaml:"change" json:"change"`
	ChangePercent float64 `yaml:"change_percent" json:"change_percent"`
	Sector        string  `yaml:"sector" json:"sector"`
	MarketCap     int64   `yaml:"market_cap" json:"market_cap" validate:"gte=0"`
	DividendYield Metric  `yaml:"dividend_yield" json:"dividend_yield" validate:"omitempty,gte=0"`
	PE            Metric  `yaml:"pe" json:"pe" validate:"omitempty,gt=0"`   // price / earnings
	ROE           Metric  `yaml:"roe" json:"roe"`                           // return on equity, %
	PB            Metric  `yaml:"pb" json:"pb" validate:"omitempty,gt=0"`   // price / book
	Score         float64 `yaml:"score" json:"score" validate:"gte=0,lte=10"`
	Reason        string  `yaml:"reason" json:"reason"`
}

// IsRising reports whether the absolute change is non-negative
func (i Instrument) IsRising() bool {
	return i.Change >= 0
}
