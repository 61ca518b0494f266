package strategyconfig

import (
	"golang.org/x/text/language"

	"github.com/wonny/stockpicker/internal/contracts"
)

// Config는 전략 목록과 화면 문구 설정
type Config struct {
	Meta       Meta         `yaml:"meta" json:"meta"`
	Strategies []Descriptor `yaml:"strategies" json:"strategies"`
}

// Meta 로케일/통화/문구
type Meta struct {
	Version    string `yaml:"version" json:"version"`
	Locale     string `yaml:"locale" json:"locale"`     // BCP 47, e.g. pt-BR
	Currency   string `yaml:"currency" json:"currency"` // ISO 4217, e.g. BRL
	Title      string `yaml:"title" json:"title"`
	Subtitle   string `yaml:"subtitle" json:"subtitle"`
	Disclaimer string `yaml:"disclaimer" json:"disclaimer"`
	Footer     string `yaml:"footer" json:"footer"`
	Labels     Labels `yaml:"labels" json:"labels"`
}

// Labels UI 라벨
type Labels struct {
	ChooseTitle    string `yaml:"choose_title" json:"choose_title"`
	ChooseSubtitle string `yaml:"choose_subtitle" json:"choose_subtitle"`
	ResultsHeading string `yaml:"results_heading" json:"results_heading"` // %s = strategy name
	Analyzing      string `yaml:"analyzing" json:"analyzing"`
	EmptyTitle     string `yaml:"empty_title" json:"empty_title"`
	EmptyMessage   string `yaml:"empty_message" json:"empty_message"`
	Score          string `yaml:"score" json:"score"`
	MarketCap      string `yaml:"market_cap" json:"market_cap"`
	DividendYield  string `yaml:"dividend_yield" json:"dividend_yield"`
	PE             string `yaml:"pe" json:"pe"`
	ROE            string `yaml:"roe" json:"roe"`
}

// Descriptor 전략 표시 정보 (규칙 자체는 selection 패키지)
type Descriptor struct {
	ID          contracts.StrategyID `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
	Icon        string               `yaml:"icon" json:"icon"`
	Color       string               `yaml:"color" json:"color"`
	Criteria    string               `yaml:"criteria" json:"criteria"`
}

// Descriptor finds the descriptor for id
func (c *Config) Descriptor(id contracts.StrategyID) (Descriptor, bool) {
	for _, d := range c.Strategies {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IDs returns strategy identifiers in display order
func (c *Config) IDs() []contracts.StrategyID {
	ids := make([]contracts.StrategyID, 0, len(c.Strategies))
	for _, d := range c.Strategies {
		ids = append(ids, d.ID)
	}
	return ids
}

// Language returns the configured locale, pt-BR when unset or invalid
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Meta.Locale)
	if err != nil {
		return language.BrazilianPortuguese
	}
	return tag
}
