package handlers

import (
	"net/http"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// OfferHandler exposes the order offer state machine to the device shell.
type OfferHandler struct {
	logger logx.Logger
	m      offerMachine
}

// NewOfferHandler wires the offer machine into HTTP handlers.
func NewOfferHandler(logger logx.Logger, m offerMachine) *OfferHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OfferHandler{logger: logger, m: m}
}

// Get handles GET /offer.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.m.State())
}

// Accept handles POST /offer/accept. It blocks until the backend answers.
func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if err := h.m.Accept(r.Context()); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.m.State())
}

// Decline handles POST /offer/decline.
func (h *OfferHandler) Decline(w http.ResponseWriter, r *http.Request) {
	if err := h.m.Decline(); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.m.State())
}

// Acknowledge handles POST /offer/ack.
func (h *OfferHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if err := h.m.Acknowledge(); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.m.State())
}

// Drag handles POST /offer/panel/drag.
func (h *OfferHandler) Drag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	collapsed := h.m.Panel().Drag(*req.DY)
	writeJSON(h.logger, w, r, http.StatusOK, panelResponse{Collapsed: collapsed})
}

// Expand handles POST /offer/panel/expand.
func (h *OfferHandler) Expand(w http.ResponseWriter, r *http.Request) {
	h.m.Panel().Expand()
	writeJSON(h.logger, w, r, http.StatusOK, panelResponse{Collapsed: false})
}
