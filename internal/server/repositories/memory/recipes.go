package memory

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/search"
)

type RecipeRepository struct {
	s *Store
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	recipe.ID = newID()
	recipe.CreatedAt = r.s.now()
	recipe.Ratings = []models.Rating{}
	recipe.Comments = []models.Comment{}

	r.s.recipes[recipe.ID] = &recipeRow{recipe: cloneRecipe(recipe), seq: r.s.next()}
	return recipe, nil
}

func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.recipes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneRecipe(row.recipe), nil
}

func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.recipes[recipe.ID]
	if !ok {
		return common.ErrorNotFound
	}

	cur := row.recipe
	cur.Title = recipe.Title
	cur.Description = recipe.Description
	cur.Instructions = recipe.Instructions
	cur.Ingredients = append([]string{}, recipe.Ingredients...)
	cur.Category = recipe.Category
	cur.ImageURL = recipe.ImageURL
	cur.ImageKey = recipe.ImageKey
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.recipes, id)

	for userID, favs := range r.s.favorites {
		kept := favs[:0]
		for _, f := range favs {
			if f.recipeID != id {
				kept = append(kept, f)
			}
		}
		r.s.favorites[userID] = kept
	}
	return nil
}

func (r *RecipeRepository) List(ctx context.Context, filter search.Filter, limit, offset int) ([]*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.s.newestFirst(filter.Matches)

	result := []*models.Recipe{}
	for i := offset; i < len(rows) && len(result) < limit; i++ {
		result = append(result, cloneRecipe(rows[i].recipe))
	}
	return result, nil
}

func (r *RecipeRepository) Count(ctx context.Context, filter search.Filter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, row := range r.s.recipes {
		if filter.Matches(row.recipe) {
			n++
		}
	}
	return n, nil
}

func (r *RecipeRepository) Suggest(ctx context.Context, term string, limit int) ([]models.Suggestion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(term)
	rows := r.s.newestFirst(func(rc *models.Recipe) bool {
		return strings.Contains(strings.ToLower(rc.Title), needle)
	})

	var prefix, rest []models.Suggestion
	for _, row := range rows {
		s := models.Suggestion{ID: row.recipe.ID, Title: row.recipe.Title}
		if strings.HasPrefix(strings.ToLower(s.Title), needle) {
			prefix = append(prefix, s)
		} else {
			rest = append(rest, s)
		}
	}

	result := append([]models.Suggestion{}, prefix...)
	result = append(result, rest...)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *RecipeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(rc *models.Recipe) bool { return rc.OwnerID == ownerID }), nil
}

func (r *RecipeRepository) ListFavorites(ctx context.Context, userID string) ([]*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, f := range r.s.favorites[userID] {
		set[f.recipeID] = struct{}{}
	}
	return r.collect(func(rc *models.Recipe) bool {
		_, ok := set[rc.ID]
		return ok
	}), nil
}

func (r *RecipeRepository) collect(keep func(*models.Recipe) bool) []*models.Recipe {
	result := []*models.Recipe{}
	for _, row := range r.s.newestFirst(keep) {
		result = append(result, cloneRecipe(row.recipe))
	}
	return result
}

func (r *RecipeRepository) UpsertRating(ctx context.Context, recipeID, userID string, value int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return common.ErrorNotFound
	}

	for i := range row.recipe.Ratings {
		if row.recipe.Ratings[i].UserID == userID {
			row.recipe.Ratings[i].Value = value
			return nil
		}
	}
	row.recipe.Ratings = append(row.recipe.Ratings, models.Rating{UserID: userID, Value: value})
	return nil
}

func (r *RecipeRepository) AddComment(ctx context.Context, recipeID string, comment *models.Comment) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	comment.ID = newID()
	comment.CreatedAt = r.s.now()
	row.recipe.Comments = append([]models.Comment{*comment}, row.recipe.Comments...)
	return comment, nil
}

func (r *RecipeRepository) GetComment(ctx context.Context, recipeID, commentID string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := row.recipe.FindComment(commentID)
	if c == nil {
		return nil, common.ErrorNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *RecipeRepository) DeleteComment(ctx context.Context, recipeID, commentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return common.ErrorNotFound
	}

	comments := row.recipe.Comments
	for i := range comments {
		if comments[i].ID == commentID {
			row.recipe.Comments = append(comments[:i:i], comments[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *RecipeRepository) Comments(ctx context.Context, recipeID string) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.recipes[recipeID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]models.Comment{}, row.recipe.Comments...), nil
}
