package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/stockpicker/internal/contracts"
	"github.com/wonny/stockpicker/internal/interaction"
	"github.com/wonny/stockpicker/internal/recommend"
	"github.com/wonny/stockpicker/pkg/logger"
)

// WebSocket settings
const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SelectionHandler handles the interactive strategy selection
// ⭐ SSOT: 선택 상태 API/WebSocket 핸들러는 이 구조체에서만
type SelectionHandler struct {
	selector *interaction.Selector
	service  *recommend.Service
	logger   *logger.Logger
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(selector *interaction.Selector, service *recommend.Service, log *logger.Logger) *SelectionHandler {
	return &SelectionHandler{
		selector: selector,
		service:  service,
		logger:   log,
	}
}

// SelectRequest is the body of POST /api/selection and websocket messages
type SelectRequest struct {
	Strategy string `json:"strategy"`
}

// StateMessage is pushed to websocket clients
type StateMessage struct {
	Type  string            `json:"type"` // "state"
	State interaction.State `json:"state"`
	Label string            `json:"label,omitempty"` // "Analisando..." while analyzing
}

// Get returns the current selection state
// GET /api/selection
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondData(w, h.stateMessage(h.selector.Current()))
}

// Select records a strategy and returns its recommendation
// POST /api/selection {"strategy":"dividends"}
func (h *SelectionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, _ := contracts.ParseStrategy(req.Strategy)
	state := h.selector.Select(id)

	rec, err := h.service.Recommend(r.Context(), req.Strategy)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build recommendation")
		respondError(w, http.StatusInternalServerError, "Failed to build recommendation")
		return
	}

	respondData(w, map[string]interface{}{
		"selection":      h.stateMessage(state),
		"recommendation": h.service.View(rec),
	})
}

// Stream pushes selection state changes over a websocket.
// Clients may send {"strategy":"..."} to select.
// GET /ws/selection
func (h *SelectionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade가 이미 HTTP 에러 응답을 보냄
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	states, cancel := h.selector.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case state, ok := <-states:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(h.stateMessage(state)); err != nil {
				h.logger.WithError(err).Debug("WebSocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop applies client selections until the connection closes
func (h *SelectionHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req SelectRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("WebSocket closed unexpectedly")
			}
			return
		}

		id, _ := contracts.ParseStrategy(req.Strategy)
		h.selector.Select(id)
	}
}

func (h *SelectionHandler) stateMessage(state interaction.State) StateMessage {
	msg := StateMessage{Type: "state", State: state}
	if state.Analyzing {
		msg.Label = h.service.Meta().Labels.Analyzing
	}
	return msg
}
