package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/stockpicker/internal/api/handlers"
	"github.com/wonny/stockpicker/pkg/logger"
)

// ServiceName is reported by /health
const ServiceName = "stockpicker-api"

// Handlers groups every endpoint handler
type Handlers struct {
	Strategy       *handlers.StrategyHandler
	Recommendation *handlers.RecommendationHandler
	Instrument     *handlers.InstrumentHandler
	Selection      *handlers.SelectionHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, limiter Limiter, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Strategies
	api.HandleFunc("/strategies", h.Strategy.List).Methods("GET")
	api.HandleFunc("/strategies/{id}/recommendations", h.Recommendation.GetByStrategy).Methods("GET")

	// Recommendations
	api.HandleFunc("/recommendations", h.Recommendation.Get).Methods("GET")

	// Instruments (search는 {symbol}보다 먼저 등록)
	api.HandleFunc("/instruments", h.Instrument.List).Methods("GET")
	api.HandleFunc("/instruments/search", h.Instrument.Search).Methods("GET")
	api.HandleFunc("/instruments/{symbol}", h.Instrument.Get).Methods("GET")

	// Selection
	api.HandleFunc("/selection", h.Selection.Get).Methods("GET")
	api.HandleFunc("/selection", h.Selection.Select).Methods("POST")

	// WebSocket
	r.HandleFunc("/ws/selection", h.Selection.Stream).Methods("GET")

	// 서브라우터도 JSON 404/405 (미설정 시 루트 404로 떨어짐)
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	api.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Apply middleware (등록 순서대로 바깥쪽)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if limiter != nil {
		r.Use(rateLimitMiddleware(limiter, log))
	}

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": ServiceName,
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
