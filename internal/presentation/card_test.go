package presentation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpicker/internal/contracts"
)

func TestFormatter_Card(t *testing.T) {
	f := DefaultFormatter()

	vale := contracts.Instrument{
		Symbol: "VALE3", Name: "Vale", Price: 65.42, Change: -1.23, ChangePercent: -1.85,
		Sector: "Mineração", MarketCap: 315_000_000_000,
		DividendYield: contracts.Some(12.3), PE: contracts.Some(5.1), ROE: contracts.Some(28.4), PB: contracts.Some(1.4),
		Score: 8.9, Reason: "Dividendos consistentes e posição dominante",
	}

	card := f.Card(1, vale)

	assert.Equal(t, Card{
		Rank:          1,
		Badge:         "#1",
		Symbol:        "VALE3",
		Name:          "Vale",
		Sector:        "Mineração",
		Price:         "R$ 65,42",
		ChangePercent: "-1.85%",
		Direction:     DirectionDown,
		MarketCap:     "R$ 315.0B",
		DividendYield: "12.3%",
		PE:            "5.1x",
		ROE:           "28.4%",
		Score:         "8.9/10",
		ScoreBar:      "89%",
		ScoreValue:    8.9,
		Reason:        "Dividendos consistentes e posição dominante",
	}, card)
}

func TestFormatter_CardHidesFalsyRatios(t *testing.T) {
	f := DefaultFormatter()

	mglu := contracts.Instrument{Symbol: "MGLU3", Name: "Magazine Luiza", DividendYield: contracts.Some(0), PE: contracts.Some(25.6)}
	card := f.Card(2, mglu)

	data, err := json.Marshal(card)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "dividend_yield")
	assert.NotContains(t, m, "roe")
	assert.Equal(t, "25.6x", m["pe"])
	assert.Equal(t, "#2", m["badge"])
}

func TestFormatter_Cards(t *testing.T) {
	f := DefaultFormatter()

	rec := contracts.NewRecommendation("growth", contracts.StrategyGrowth, []contracts.Instrument{
		{Symbol: "PETR4"}, {Symbol: "VALE3"},
	})

	cards := f.Cards(rec.Picks)
	require.Len(t, cards, 2)
	assert.Equal(t, "#1", cards[0].Badge)
	assert.Equal(t, "VALE3", cards[1].Symbol)

	assert.NotNil(t, f.Cards(nil))
	assert.Len(t, f.InstrumentCards([]contracts.Instrument{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}}), 3)
}
