package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/stockpicker/internal/recommend"
	"github.com/wonny/stockpicker/pkg/logger"
)

// RecommendationHandler handles ranking endpoints
// ⭐ SSOT: 추천 API 핸들러는 이 구조체에서만
type RecommendationHandler struct {
	service *recommend.Service
	logger  *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service *recommend.Service, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		logger:  log,
	}
}

// Get ranks the catalog for ?strategy=<id>
// GET /api/recommendations?strategy=dividends
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, r.URL.Query().Get("strategy"))
}

// GetByStrategy ranks the catalog for the path strategy
// GET /api/strategies/{id}/recommendations
func (h *RecommendationHandler) GetByStrategy(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, mux.Vars(r)["id"])
}

func (h *RecommendationHandler) recommend(w http.ResponseWriter, r *http.Request, raw string) {
	rec, err := h.service.Recommend(r.Context(), raw)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			respondError(w, http.StatusServiceUnavailable, "Request cancelled")
			return
		}
		h.logger.WithError(err).Error("Failed to build recommendation")
		respondError(w, http.StatusInternalServerError, "Failed to build recommendation")
		return
	}

	respondData(w, h.service.View(rec))
}
