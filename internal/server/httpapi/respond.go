package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/external"
	"github.com/goccy/go-json"
)

type msgResponse struct {
	Msg string `json:"msg"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), "encode response", "error", err)
	}
}

func (s *HTTPServer) writeMsg(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, msgResponse{Msg: msg})
}

// writeError maps service errors onto status codes. notFound is the message
// used for common.ErrorNotFound.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeMsg(w, r, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, common.ErrSelfRating):
		s.writeMsg(w, r, http.StatusBadRequest, "You cannot rate your own recipe")
	case errors.Is(err, common.ErrorForbidden), errors.Is(err, common.ErrorUnauthorized):
		s.writeMsg(w, r, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrRefreshTokenExpired), errors.Is(err, common.ErrTokenExpired):
		s.writeMsg(w, r, http.StatusUnauthorized, "Token is not valid")
	case errors.Is(err, common.ErrorNotFound):
		s.writeMsg(w, r, http.StatusNotFound, notFound)
	case errors.Is(err, external.ErrUnavailable):
		s.writeMsg(w, r, http.StatusServiceUnavailable, "External recipe service unavailable")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.writeMsg(w, r, http.StatusInternalServerError, "Server Error")
	}
}
