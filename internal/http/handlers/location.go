package handlers

import (
	"net/http"
	"strings"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// SourceManual labels acquisitions requested over HTTP without a source.
const SourceManual = "manual"

// LocationHandler serves location triggers and diagnostics.
type LocationHandler struct {
	logger  logx.Logger
	tracker locationTracker
	engine  locationEngine
}

// NewLocationHandler wires the tracker and engine into HTTP handlers.
func NewLocationHandler(logger logx.Logger, tracker locationTracker, engine locationEngine) *LocationHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &LocationHandler{logger: logger, tracker: tracker, engine: engine}
}

// Probe handles POST /location/probe: one acquisition and report for the
// current courier.
func (h *LocationHandler) Probe(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if ok := decodeJSON(h.logger, w, r, &req, allowEmpty); !ok {
		return
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = SourceManual
	}
	if err := h.tracker.Trigger(r.Context(), source); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusToResponse(h.engine.LastReportedAt(), h.tracker.Silence()))
}

// Movement handles POST /location/movement from the shell's position watcher.
func (h *LocationHandler) Movement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.tracker.OnMovement(r.Context(), req.toModel()); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusToResponse(h.engine.LastReportedAt(), h.tracker.Silence()))
}

// Status handles GET /location/status.
func (h *LocationHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, statusToResponse(h.engine.LastReportedAt(), h.tracker.Silence()))
}

// Diagnostics handles GET /location/diagnostics.
func (h *LocationHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	d, err := h.engine.Diagnose(r.Context())
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{
		"diagnostics": d,
		"report":      d.String(),
	})
}
