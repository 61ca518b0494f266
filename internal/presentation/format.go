package presentation

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wonny/stockpicker/internal/contracts"
)

var (
	billion = decimal.NewFromInt(1_000_000_000)
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

// currencySymbols maps ISO codes to display symbols
var currencySymbols = map[string]string{
	"BRL": "R$",
	"USD": "US$",
	"EUR": "€",
	"KRW": "₩",
}

// Direction of a price move
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Formatter renders instrument values for display
// ⭐ SSOT: 화면 표시 포맷은 여기서만
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a formatter for a locale and currency
func NewFormatter(tag language.Tag, unit currency.Unit) *Formatter {
	symbol, ok := currencySymbols[unit.String()]
	if !ok {
		symbol = unit.String()
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
}

// DefaultFormatter formats for pt-BR / BRL
func DefaultFormatter() *Formatter {
	return NewFormatter(language.BrazilianPortuguese, currency.BRL)
}

// Language returns the formatter's locale
func (f *Formatter) Language() language.Tag {
	return f.tag
}

// Currency formats a price with locale separators: "R$ 37,85"
func (f *Formatter) Currency(v float64) string {
	amount := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + f.symbol + " " + f.printer.Sprintf("%.2f", amount.InexactFloat64())
}

// MarketCap formats a market value in billions: "R$ 493.0B"
func (f *Formatter) MarketCap(v int64) string {
	billions := decimal.NewFromInt(v).Div(billion)
	return f.symbol + " " + billions.StringFixed(1) + "B"
}

// ChangePercent formats a signed percentage: "+2.02%", "-1.85%", "0.00%"
func (f *Formatter) ChangePercent(p float64) string {
	d := decimal.NewFromFloat(p)
	prefix := ""
	if d.IsPositive() {
		prefix = "+"
	}
	return prefix + d.StringFixed(2) + "%"
}

// Ratio formats an optional ratio with one decimal and a suffix ("8.5%", "4.2x").
// Absent and zero values render as "" and are hidden.
func (f *Formatter) Ratio(m contracts.Metric, suffix string) string {
	v, ok := m.Get()
	if !ok || v == 0 {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(1) + suffix
}

// Score formats a recommendation score: "9.2/10"
func (f *Formatter) Score(s float64) string {
	return decimal.NewFromFloat(s).StringFixed(1) + "/10"
}

// ScoreBarWidth converts a 0-10 score to a CSS width: "92%"
func (f *Formatter) ScoreBarWidth(s float64) string {
	width := decimal.NewFromFloat(s).Mul(ten)
	if width.IsNegative() {
		width = decimal.Zero
	}
	if width.GreaterThan(hundred) {
		width = hundred
	}
	return width.String() + "%"
}

// Direction reports "up" for non-negative changes, "down" otherwise
func Direction(change float64) string {
	if change >= 0 {
		return DirectionUp
	}
	return DirectionDown
}

// Heading fills a "%s" template with a strategy name
func Heading(template, name string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return strings.Replace(template, "%s", name, 1)
}
