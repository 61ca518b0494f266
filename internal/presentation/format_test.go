package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/wonny/stockpicker/internal/contracts"
)

func TestFormatter_Currency(t *testing.T) {
	f := DefaultFormatter()

	tests := []struct {
		in   float64
		want string
	}{
		{37.85, "R$ 37,85"},
		{8.92, "R$ 8,92"},
		{65.42, "R$ 65,42"},
		{0, "R$ 0,00"},
		{1234.5, "R$ 1.234,50"},
		{-5, "-R$ 5,00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Currency(tt.in))
	}
}

func TestFormatter_CurrencyOtherLocale(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish, currency.USD)
	assert.Equal(t, "US$ 37.85", f.Currency(37.85))
	assert.Equal(t, "US$ 493.0B", f.MarketCap(493_000_000_000))
}

func TestFormatter_MarketCap(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "R$ 493.0B", f.MarketCap(493_000_000_000))
	assert.Equal(t, "R$ 59.0B", f.MarketCap(59_000_000_000))
	assert.Equal(t, "R$ 1.5B", f.MarketCap(1_450_000_000))
	assert.Equal(t, "R$ 0.0B", f.MarketCap(0))
}

func TestFormatter_ChangePercent(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "+2.02%", f.ChangePercent(2.02))
	assert.Equal(t, "-1.85%", f.ChangePercent(-1.85))
	assert.Equal(t, "+3.40%", f.ChangePercent(3.4))
	assert.Equal(t, "0.00%", f.ChangePercent(0))
}

func TestFormatter_Ratio(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "8.5%", f.Ratio(contracts.Some(8.5), "%"))
	assert.Equal(t, "4.2x", f.Ratio(contracts.Some(4.2), "x"))
	assert.Equal(t, "12.0%", f.Ratio(contracts.Some(12), "%"))
	assert.Equal(t, "", f.Ratio(contracts.None(), "%"), "absent is hidden")
	assert.Equal(t, "", f.Ratio(contracts.Some(0), "%"), "zero is hidden")
}

func TestFormatter_Score(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "9.2/10", f.Score(9.2))
	assert.Equal(t, "8.0/10", f.Score(8))

	assert.Equal(t, "92%", f.ScoreBarWidth(9.2))
	assert.Equal(t, "86%", f.ScoreBarWidth(8.6))
	assert.Equal(t, "100%", f.ScoreBarWidth(10))
	assert.Equal(t, "0%", f.ScoreBarWidth(0))
	assert.Equal(t, "100%", f.ScoreBarWidth(12))
	assert.Equal(t, "0%", f.ScoreBarWidth(-1))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, DirectionUp, Direction(0.75))
	assert.Equal(t, DirectionUp, Direction(0))
	assert.Equal(t, DirectionDown, Direction(-0.08))
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Recomendações para Dividendos", Heading("Recomendações para %s", "Dividendos"))
	assert.Equal(t, "Resultados", Heading("Resultados", "Dividendos"))
}
