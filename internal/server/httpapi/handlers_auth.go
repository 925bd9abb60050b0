package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/services"
)

func tokens(p *services.TokenPair) tokenResponse {
	return tokenResponse{Token: p.AccessToken, RefreshToken: p.RefreshToken}
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	pair, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", req.Email)
	s.writeJSON(w, r, http.StatusOK, tokens(pair))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.writeMsg(w, r, http.StatusBadRequest, "Invalid credentials")
			return
		}
		s.writeError(w, r, err, "")
		return
	}

	s.writeJSON(w, r, http.StatusOK, tokens(pair))
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	s.writeJSON(w, r, http.StatusOK, tokens(pair))
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userIDFrom(r.Context())); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	s.writeMsg(w, r, http.StatusOK, "Logged out")
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Me(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "User not found")
		return
	}
	s.writeJSON(w, r, http.StatusOK, u)
}
