package strategyconfig

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/wonny/stockpicker/internal/contracts"
)

var colorPattern = regexp.MustCompile(`^bg-[a-z]+-\d{2,3}$`)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if strings.TrimSpace(cfg.Meta.Title) == "" {
		return ValidationError{"meta.title", "required"}
	}
	if _, err := language.Parse(cfg.Meta.Locale); err != nil {
		return ValidationError{"meta.locale", fmt.Sprintf("invalid BCP 47 tag %q", cfg.Meta.Locale)}
	}
	if _, err := currency.ParseISO(cfg.Meta.Currency); err != nil {
		return ValidationError{"meta.currency", fmt.Sprintf("invalid ISO 4217 code %q", cfg.Meta.Currency)}
	}
	if h := cfg.Meta.Labels.ResultsHeading; h != "" && strings.Count(h, "%s") != 1 {
		return ValidationError{"meta.labels.results_heading", "must contain exactly one %s"}
	}

	// === Strategies ===
	if len(cfg.Strategies) == 0 {
		return ValidationError{"strategies", "required"}
	}

	seen := make(map[contracts.StrategyID]bool, len(cfg.Strategies))
	for i, d := range cfg.Strategies {
		field := fmt.Sprintf("strategies[%d]", i)

		if !d.ID.IsKnown() {
			return ValidationError{field + ".id", fmt.Sprintf("unknown strategy %q", d.ID)}
		}
		if seen[d.ID] {
			return ValidationError{field + ".id", fmt.Sprintf("duplicate strategy %q", d.ID)}
		}
		seen[d.ID] = true

		if strings.TrimSpace(d.Name) == "" {
			return ValidationError{field + ".name", "required"}
		}
		if d.Color != "" && !colorPattern.MatchString(d.Color) {
			return ValidationError{field + ".color", fmt.Sprintf("must match %s", colorPattern)}
		}
	}

	// 닫힌 집합: 모든 전략이 정확히 한 번씩
	for _, id := range contracts.AllStrategies() {
		if !seen[id] {
			return ValidationError{"strategies", fmt.Sprintf("missing strategy %q", id)}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Meta.Disclaimer == "" {
		warnings = append(warnings, Warning{
			Code:    "MISSING_DISCLAIMER",
			Message: "투자 권유 아님 문구가 비어 있음",
		})
	}

	for _, d := range cfg.Strategies {
		if d.Description == "" {
			warnings = append(warnings, Warning{
				Code:    "MISSING_DESCRIPTION",
				Message: fmt.Sprintf("전략 %s 설명이 비어 있음", d.ID),
			})
		}
	}

	return warnings
}
