package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) profile(w http.ResponseWriter, r *http.Request) {
	p, err := s.users.Profile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeError(w, r, err, "User not found")
		return
	}
	s.writeJSON(w, r, http.StatusOK, struct {
		Name    string       `json:"name"`
		Recipes []recipeView `json:"recipes"`
	}{p.Name, viewsOf(p.Recipes)})
}

func (s *HTTPServer) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	ids, err := s.users.ToggleFavorite(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "recipeId"))
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ids)
}

func (s *HTTPServer) favorites(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.Favorites(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, viewsOf(list))
}

func (s *HTTPServer) searchExternal(w http.ResponseWriter, r *http.Request) {
	list, err := s.external.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	s.writeJSON(w, r, http.StatusOK, list)
}
