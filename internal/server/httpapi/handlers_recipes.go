package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	recipeNotFound  = "Recipe not found"
	commentNotFound = "Comment does not exist"
)

func (s *HTTPServer) listRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.recipes.List(r.Context(), q.Get("search"), q.Get("category"), pageParam(r))
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, recipePageResponse{
		Recipes: viewsOf(page.Recipes),
		Page:    page.Page,
		Pages:   page.Pages,
	})
}

func (s *HTTPServer) suggestRecipes(w http.ResponseWriter, r *http.Request) {
	hits, err := s.recipes.Suggest(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, hits)
}

func (s *HTTPServer) myRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.recipes.ListMine(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, viewsOf(list))
}

func (s *HTTPServer) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, viewOf(recipe))
}

func (s *HTTPServer) createRecipe(w http.ResponseWriter, r *http.Request) {
	fields, img, err := readRecipeForm(w, r)
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}

	recipe, err := s.recipes.Create(r.Context(), userIDFrom(r.Context()), fields, img)
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, viewOf(recipe))
}

func (s *HTTPServer) updateRecipe(w http.ResponseWriter, r *http.Request) {
	fields, img, err := readRecipeForm(w, r)
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}

	recipe, err := s.recipes.Update(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()), fields, img)
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, viewOf(recipe))
}

func (s *HTTPServer) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context())); err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeMsg(w, r, http.StatusOK, "Recipe removed")
}

func (s *HTTPServer) rateRecipe(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}

	recipe, err := s.recipes.Rate(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()), req.Rating)
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, viewOf(recipe))
}

func (s *HTTPServer) addComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}

	comments, err := s.recipes.AddComment(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()), req.Text)
	if err != nil {
		s.writeError(w, r, err, recipeNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, comments)
}

func (s *HTTPServer) deleteComment(w http.ResponseWriter, r *http.Request) {
	comments, err := s.recipes.DeleteComment(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()), chi.URLParam(r, "commentId"))
	if err != nil {
		s.writeError(w, r, err, commentNotFound)
		return
	}
	s.writeJSON(w, r, http.StatusOK, comments)
}
