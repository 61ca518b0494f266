package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/stockpicker/internal/contracts"
)

var (
	// ErrEmptyCatalog is returned when a source yields no instruments
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrDuplicateSymbol is returned when two instruments share a symbol
	ErrDuplicateSymbol = errors.New("duplicate instrument symbol")

	// ErrInstrumentNotFound is returned by symbol lookups
	ErrInstrumentNotFound = errors.New("instrument not found")
)

// ValidationError describes one invalid instrument field
type ValidationError struct {
	Symbol string
	Field  string
	Rule   string
	Value  interface{}
}

func (e *ValidationError) Error() string {
	symbol := e.Symbol
	if symbol == "" {
		symbol = "<no symbol>"
	}
	return fmt.Sprintf("instrument %s: %s failed %q (value: %v)", symbol, e.Field, e.Rule, e.Value)
}

// dataset is the validation root: non-empty, unique symbols, each row checked
type dataset struct {
	Instruments []contracts.Instrument `validate:"min=1,unique_symbol,dive"`
}

// NormalizeSymbol is the form used for uniqueness, lookup and search IDs
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// instrumentValidator returns the shared validator with Metric support
func instrumentValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// 값 없는 Metric → nil → omitempty 통과
		// 값 있는 Metric → *float64 → 0 이어도 규칙 적용 (pe: 0 거부)
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if m, ok := field.Interface().(contracts.Metric); ok && m.Present() {
				return m.Ptr()
			}
			return nil
		}, contracts.Metric{})
		// 심볼 중복은 대소문자/공백 무시 (PETR4 == petr4)
		_ = validate.RegisterValidation("unique_symbol", func(fl validator.FieldLevel) bool {
			instruments, ok := fl.Field().Interface().([]contracts.Instrument)
			return !ok || len(duplicates(instruments)) == 0
		})
	})
	return validate
}

// Validate checks a dataset before it becomes a Catalog
// ⭐ SSOT: 종목 데이터 검증 규칙은 여기서만
func Validate(instruments []contracts.Instrument) error {
	if len(instruments) == 0 {
		return ErrEmptyCatalog
	}

	err := instrumentValidator().Struct(dataset{Instruments: instruments})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate catalog: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "unique_symbol" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateSymbol, strings.Join(duplicates(instruments), ", ")))
			continue
		}
		errs = append(errs, &ValidationError{
			Symbol: symbolAt(instruments, fe.Namespace()),
			Field:  fe.Field(),
			Rule:   ruleText(fe),
			Value:  fe.Value(),
		})
	}

	return errors.Join(errs...)
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// symbolAt resolves "dataset.Instruments[3].Score" to the row's symbol
func symbolAt(instruments []contracts.Instrument, namespace string) string {
	start := strings.Index(namespace, "[")
	end := strings.Index(namespace, "]")
	if start < 0 || end <= start {
		return ""
	}

	var idx int
	if _, err := fmt.Sscanf(namespace[start+1:end], "%d", &idx); err != nil {
		return ""
	}
	if idx < 0 || idx >= len(instruments) {
		return ""
	}
	return instruments[idx].Symbol
}

func duplicates(instruments []contracts.Instrument) []string {
	seen := make(map[string]int, len(instruments))
	var dup []string
	for _, inst := range instruments {
		key := NormalizeSymbol(inst.Symbol)
		seen[key]++
		if seen[key] == 2 {
			dup = append(dup, key)
		}
	}
	return dup
}
