package presentation

import (
	"strconv"

	"github.com/wonny/stockpicker/internal/contracts"
)

// Card is the display model of one ranked instrument
type Card struct {
	Rank          int     `json:"rank"`
	Badge         string  `json:"badge"` // "#1"
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Price         string  `json:"price"`
	ChangePercent string  `json:"change_percent"`
	Direction     string  `json:"direction"`
	MarketCap     string  `json:"market_cap"`
	DividendYield string  `json:"dividend_yield,omitempty"`
	PE            string  `json:"pe,omitempty"`
	ROE           string  `json:"roe,omitempty"`
	Score         string  `json:"score"`
	ScoreBar      string  `json:"score_bar"`
	ScoreValue    float64 `json:"score_value"`
	Reason        string  `json:"reason"`
}

// Card builds the display model for one instrument at a 1-based rank
func (f *Formatter) Card(rank int, inst contracts.Instrument) Card {
	return Card{
		Rank:          rank,
		Badge:         "#" + strconv.Itoa(rank),
		Symbol:        inst.Symbol,
		Name:          inst.Name,
		Sector:        inst.Sector,
		Price:         f.Currency(inst.Price),
		ChangePercent: f.ChangePercent(inst.ChangePercent),
		Direction:     Direction(inst.Change),
		MarketCap:     f.MarketCap(inst.MarketCap),
		DividendYield: f.Ratio(inst.DividendYield, "%"),
		PE:            f.Ratio(inst.PE, "x"),
		ROE:           f.Ratio(inst.ROE, "%"),
		Score:         f.Score(inst.Score),
		ScoreBar:      f.ScoreBarWidth(inst.Score),
		ScoreValue:    inst.Score,
		Reason:        inst.Reason,
	}
}

// Cards builds display models for a recommendation's picks
func (f *Formatter) Cards(picks []contracts.Pick) []Card {
	cards := make([]Card, 0, len(picks))
	for _, p := range picks {
		cards = append(cards, f.Card(p.Rank, p.Instrument))
	}
	return cards
}

// InstrumentCards numbers instruments in slice order
func (f *Formatter) InstrumentCards(instruments []contracts.Instrument) []Card {
	cards := make([]Card, 0, len(instruments))
	for i, inst := range instruments {
		cards = append(cards, f.Card(i+1, inst))
	}
	return cards
}
