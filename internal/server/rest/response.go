package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/goccy/go-json"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends v with the given status. A marshal failure turns into a
// bare 500.
func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error(ctx, "failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn(ctx, "failed to write response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	h.writeJSON(ctx, w, status, errorResponse{Error: msg})
}

// statusOf maps service errors to HTTP status codes. ok is false for
// unexpected errors.
func statusOf(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, true
	case errors.Is(err, common.ErrForbidden),
		errors.Is(err, common.ErrActivationExpired),
		errors.Is(err, common.ErrActivationLimitReached):
		return http.StatusForbidden, true
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, true
	}
	return http.StatusInternalServerError, false
}

// fail writes the response for err. Unexpected errors are logged and hidden
// behind a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := statusOf(err)
	if !ok {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.writeError(r.Context(), w, status, common.ErrorInternal.Error())
		return
	}
	h.writeError(r.Context(), w, status, err.Error())
}
