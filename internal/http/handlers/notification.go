package handlers

import (
	"net/http"

	"github.com/EdilKulzhabay/courier/internal/logx"
)

// NotificationHandler accepts foreground notifications from the device shell.
type NotificationHandler struct {
	logger logx.Logger
	d      notificationDispatcher
}

// NewNotificationHandler wires the dispatcher into HTTP handlers.
func NewNotificationHandler(logger logx.Logger, d notificationDispatcher) *NotificationHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &NotificationHandler{logger: logger, d: d}
}

// Post handles POST /notifications. Push payloads carry extra fields, so
// unknown keys are tolerated.
func (h *NotificationHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if ok := decodeJSON(h.logger, w, r, &req, allowUnknown); !ok {
		return
	}
	if err := h.d.Handle(r.Context(), req.toModel()); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusAccepted, statusResponse{Status: "ok"})
}
