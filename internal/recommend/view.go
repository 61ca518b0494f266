package recommend

import (
	"time"

	"golang.org/x/text/currency"

	"github.com/wonny/stockpicker/internal/contracts"
	"github.com/wonny/stockpicker/internal/presentation"
	"github.com/wonny/stockpicker/internal/strategyconfig"
)

// View is a recommendation ready for display
type View struct {
	Requested   string                     `json:"requested"`
	Strategy    contracts.StrategyID       `json:"strategy"`
	Fallback    bool                       `json:"fallback"`
	Heading     string                     `json:"heading,omitempty"`
	Descriptor  *strategyconfig.Descriptor `json:"descriptor,omitempty"`
	Cards       []presentation.Card        `json:"cards"`
	Message     string                     `json:"message,omitempty"`
	Disclaimer  string                     `json:"disclaimer"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// View formats a recommendation with the configured locale and labels
func (s *Service) View(rec *contracts.Recommendation) View {
	meta := s.strategies.Meta

	v := View{
		Requested:   rec.Requested,
		Strategy:    rec.Strategy,
		Fallback:    rec.Fallback,
		Cards:       s.formatter.Cards(rec.Picks),
		Disclaimer:  meta.Disclaimer,
		GeneratedAt: rec.GeneratedAt,
	}

	if rec.Strategy == contracts.StrategyNone {
		v.Message = meta.Labels.EmptyMessage
		return v
	}

	if d, ok := s.strategies.Descriptor(rec.Strategy); ok {
		v.Descriptor = &d
		v.Heading = presentation.Heading(meta.Labels.ResultsHeading, d.Name)
	}
	return v
}

func currencyOf(cfg *strategyconfig.Config) currency.Unit {
	unit, err := currency.ParseISO(cfg.Meta.Currency)
	if err != nil {
		return currency.BRL
	}
	return unit
}
