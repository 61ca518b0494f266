package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/stockpicker/internal/catalog"
	"github.com/wonny/stockpicker/internal/presentation"
	"github.com/wonny/stockpicker/internal/recommend"
	"github.com/wonny/stockpicker/pkg/logger"
)

// InstrumentHandler handles catalog endpoints
// ⭐ SSOT: 종목 API 핸들러는 이 구조체에서만
type InstrumentHandler struct {
	service *recommend.Service
	logger  *logger.Logger
}

// NewInstrumentHandler creates a new instrument handler
func NewInstrumentHandler(service *recommend.Service, log *logger.Logger) *InstrumentHandler {
	return &InstrumentHandler{
		service: service,
		logger:  log,
	}
}

// List returns the whole catalog in dataset order
// GET /api/instruments
func (h *InstrumentHandler) List(w http.ResponseWriter, r *http.Request) {
	cards := h.service.Formatter().InstrumentCards(h.service.Instruments())

	respondData(w, map[string]interface{}{
		"fingerprint": h.service.Fingerprint(),
		"count":       len(cards),
		"items":       cards,
	})
}

// Get returns one instrument
// GET /api/instruments/{symbol}
func (h *InstrumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	inst, err := h.service.Instrument(symbol)
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Instrument not found: "+symbol)
			return
		}
		h.logger.WithError(err).Error("Failed to get instrument")
		respondError(w, http.StatusInternalServerError, "Failed to get instrument")
		return
	}

	respondData(w, map[string]interface{}{
		"instrument": inst,
		"card":       h.service.Formatter().Card(1, inst),
	})
}

// SearchResult is one search hit with its display card
type SearchResult struct {
	Score float64           `json:"score"`
	Card  presentation.Card `json:"card"`
}

// Search runs a full-text search over the catalog
// GET /api/instruments/search?q=banco&limit=5
func (h *InstrumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := catalog.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	hits, err := h.service.Search(q, limit)
	if err != nil {
		h.logger.WithError(err).Error("Search failed")
		respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	f := h.service.Formatter()
	items := make([]SearchResult, 0, len(hits))
	for i, hit := range hits {
		items = append(items, SearchResult{
			Score: hit.Score,
			Card:  f.Card(i+1, hit.Instrument),
		})
	}

	respondData(w, map[string]interface{}{
		"query": q,
		"count": len(items),
		"items": items,
	})
}
