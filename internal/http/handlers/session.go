package handlers

import (
	"net/http"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// SessionHandler serves the courier session endpoints.
type SessionHandler struct {
	logger logx.Logger
	s      sessionService
}

// NewSessionHandler wires the session provider into HTTP handlers.
func NewSessionHandler(logger logx.Logger, s sessionService) *SessionHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &SessionHandler{logger: logger, s: s}
}

// Get handles GET /session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.s.Current(r.Context())
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, identityToResponse(id))
}

// Login handles POST /session. The backend courier record carries many
// fields the agent ignores, so unknown fields are accepted.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if ok := decodeJSON(h.logger, w, r, &req, allowUnknown); !ok {
		return
	}
	id, err := h.s.Login(r.Context(), req.Token, req.Courier.toModel())
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, identityToResponse(id))
}

// Order handles GET /order: the accepted order as the backend sent it.
func (h *SessionHandler) Order(w http.ResponseWriter, r *http.Request) {
	o, err := h.s.Order(r.Context())
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	payload, err := o.Payload()
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, payload)
}

// Online handles POST /session/online.
func (h *SessionHandler) Online(w http.ResponseWriter, r *http.Request) {
	var req onlineRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	id, err := h.s.SetOnline(r.Context(), *req.Online)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, identityToResponse(id))
}

// Logout handles POST /session/logout.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.s.Logout(r.Context()); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
