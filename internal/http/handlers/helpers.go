package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

const (
	bodyLimit = 1 << 20
)

var validate = validator.New()

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && logger != nil {
		logger.Warn("json encode error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	if logger != nil {
		logger.Info("http error",
			logx.String("req_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.String("msg", msg),
		)
	}
	writeJSON(logger, w, r, status, errResponse{Error: msg})
}

// writeAppError maps an apperr sentinel to its HTTP status.
func writeAppError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Warn("request failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
	writeError(logger, w, r, status, msg)
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, apperr.ErrNotFound.Error()
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperr.ErrServicesDisabled):
		return http.StatusUnprocessableEntity, apperr.ErrServicesDisabled.Error()
	case errors.Is(err, apperr.ErrPermissionDenied):
		return http.StatusUnprocessableEntity, apperr.ErrPermissionDenied.Error()
	case errors.Is(err, apperr.ErrLocationUnavailable):
		return http.StatusServiceUnavailable, apperr.ErrLocationUnavailable.Error()
	case errors.Is(err, apperr.ErrReportFailed):
		return http.StatusBadGateway, apperr.ErrReportFailed.Error()
	case errors.Is(err, apperr.ErrAcceptanceNotConfirmed):
		return http.StatusBadGateway, apperr.ErrAcceptanceNotConfirmed.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

type decodeOpt int

const (
	// allowEmpty accepts an empty body and leaves dst untouched.
	allowEmpty decodeOpt = 1 << iota
	// allowUnknown tolerates fields dst does not declare.
	allowUnknown
)

// decodeJSON reads a single JSON object into dst and validates it.
func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T, opts ...decodeOpt) bool {
	var o decodeOpt
	for _, opt := range opts {
		o |= opt
	}

	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	if o&allowUnknown == 0 {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && o&allowEmpty != 0 {
			return true
		}
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid input: "+err.Error())
		return false
	}
	return true
}
