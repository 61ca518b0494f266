package handlers

import (
	"net/http"

	"github.com/wonny/stockpicker/internal/recommend"
	"github.com/wonny/stockpicker/pkg/logger"
)

// StrategyHandler handles strategy catalog endpoints
// ⭐ SSOT: 전략 목록 API 핸들러는 이 구조체에서만
type StrategyHandler struct {
	service *recommend.Service
	logger  *logger.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(service *recommend.Service, log *logger.Logger) *StrategyHandler {
	return &StrategyHandler{
		service: service,
		logger:  log,
	}
}

// List returns the selectable strategies with page texts
// GET /api/strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	meta := h.service.Meta()
	strategies := h.service.Strategies()

	respondData(w, map[string]interface{}{
		"title":      meta.Title,
		"subtitle":   meta.Subtitle,
		"disclaimer": meta.Disclaimer,
		"footer":     meta.Footer,
		"locale":     meta.Locale,
		"currency":   meta.Currency,
		"labels":     meta.Labels,
		"count":      len(strategies),
		"strategies": strategies,
	})
}
