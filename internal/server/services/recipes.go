package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/logging"
	"github.com/dmitrijs2005/recipeshare/internal/server/images"
	"github.com/dmitrijs2005/recipeshare/internal/server/metrics"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipeshare/internal/server/search"
)

// ImageUpload is a raw image received from a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RecipeService owns recipe lifecycle, search, ratings and comments.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      images.Store
	logger      logging.Logger
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, img images.Store, logger logging.Logger) *RecipeService {
	return &RecipeService{
		db:          db,
		repomanager: m,
		images:      img,
		logger:      logger.With("module", "recipes"),
	}
}

// List returns one page of the feed filtered by term and category.
func (s *RecipeService) List(ctx context.Context, term, category string, page int) (*models.RecipePage, error) {
	repo := s.repomanager.Recipes(s.db)
	filter := search.BuildFilter(term, category)
	page = search.NormalizePage(page)

	count, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := search.TotalPages(count, common.RecipePageSize)
	result := &models.RecipePage{Recipes: []*models.Recipe{}, Page: page, Pages: pages}
	if page > pages {
		return result, nil
	}

	items, err := repo.List(ctx, filter, common.RecipePageSize, search.Offset(page, common.RecipePageSize))
	if err != nil {
		return nil, err
	}
	result.Recipes = items
	return result, nil
}

// Suggest returns autocomplete hits for term. Short terms yield an empty list.
func (s *RecipeService) Suggest(ctx context.Context, term string) ([]models.Suggestion, error) {
	t, ok := search.SuggestTerm(term)
	if !ok {
		return []models.Suggestion{}, nil
	}
	return s.repomanager.Recipes(s.db).Suggest(ctx, t, common.SuggestionLimit)
}

// Get returns one recipe. Malformed ids are reported as not found.
func (s *RecipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Recipes(s.db).Get(ctx, id)
}

// ListMine returns the recipes owned by userID, newest first.
func (s *RecipeService) ListMine(ctx context.Context, userID string) ([]*models.Recipe, error) {
	return s.repomanager.Recipes(s.db).ListByOwner(ctx, userID)
}

// Create validates fields, stores the optional image and inserts the recipe.
// The uploaded asset is removed again when the insert fails.
func (s *RecipeService) Create(ctx context.Context, ownerID string, fields models.RecipeFields, img *ImageUpload) (*models.Recipe, error) {
	recipe := &models.Recipe{OwnerID: ownerID}
	if err := applyFields(recipe, fields, true); err != nil {
		return nil, err
	}

	owner, err := s.repomanager.Users(s.db).GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	recipe.AuthorName = owner.Name

	if img != nil {
		if recipe.ImageKey, recipe.ImageURL, err = s.storeImage(ctx, img); err != nil {
			return nil, err
		}
	}

	created, err := s.repomanager.Recipes(s.db).Create(ctx, recipe)
	if err != nil {
		if recipe.ImageKey != "" {
			s.deleteImage(ctx, recipe.ImageKey)
		}
		return nil, err
	}

	s.logger.Info(ctx, "recipe created", "recipe_id", created.ID, "owner", ownerID)
	return created, nil
}

// Update changes the owner-editable fields and optionally replaces the image.
// Supplied-but-empty text fields keep their stored value.
func (s *RecipeService) Update(ctx context.Context, id, userID string, fields models.RecipeFields, img *ImageUpload) (*models.Recipe, error) {
	repo := s.repomanager.Recipes(s.db)

	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.OwnerID != userID {
		return nil, common.ErrorForbidden
	}
	if err := applyFields(recipe, fields, false); err != nil {
		return nil, err
	}

	oldKey := recipe.ImageKey
	if img != nil {
		if recipe.ImageKey, recipe.ImageURL, err = s.storeImage(ctx, img); err != nil {
			return nil, err
		}
	}

	if err := repo.Update(ctx, recipe); err != nil {
		if img != nil {
			s.deleteImage(ctx, recipe.ImageKey)
		}
		return nil, err
	}

	if img != nil && oldKey != "" {
		s.deleteImage(ctx, oldKey)
	}
	return repo.Get(ctx, id)
}

// Delete removes the recipe owned by userID together with its image.
func (s *RecipeService) Delete(ctx context.Context, id, userID string) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.OwnerID != userID {
		return common.ErrorForbidden
	}

	if recipe.ImageKey != "" {
		s.deleteImage(ctx, recipe.ImageKey)
	}

	if err := s.repomanager.Recipes(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "recipe deleted", "recipe_id", id, "owner", userID)
	return nil
}

// Rate records userID's rating and returns the updated recipe.
func (s *RecipeService) Rate(ctx context.Context, id, userID string, value int) (*models.Recipe, error) {
	if value < 1 || value > 5 {
		return nil, common.Invalid("Rating must be between 1 and 5")
	}

	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.OwnerID == userID {
		return nil, common.ErrSelfRating
	}

	repo := s.repomanager.Recipes(s.db)
	if err := repo.UpsertRating(ctx, id, userID, value); err != nil {
		return nil, err
	}
	metrics.RatingsSubmitted.Inc()

	return repo.Get(ctx, id)
}

// AddComment prepends a comment and returns the recipe's comments. The
// author name is a snapshot of the commenter's current user record.
func (s *RecipeService) AddComment(ctx context.Context, id, userID, text string) ([]models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.Invalid("Text is required")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	repo := s.repomanager.Recipes(s.db)
	if _, err := repo.AddComment(ctx, id, &models.Comment{UserID: userID, AuthorName: u.Name, Text: text}); err != nil {
		return nil, err
	}
	metrics.CommentsAdded.Inc()

	return repo.Comments(ctx, id)
}

// DeleteComment removes a comment written by userID and returns the rest.
func (s *RecipeService) DeleteComment(ctx context.Context, id, userID, commentID string) ([]models.Comment, error) {
	if !validID(id) || !validID(commentID) {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Recipes(s.db)

	comment, err := repo.GetComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, common.ErrorForbidden
	}

	if err := repo.DeleteComment(ctx, id, commentID); err != nil {
		return nil, err
	}
	return repo.Comments(ctx, id)
}

// SplitIngredients splits comma-separated form input into trimmed,
// non-empty entries.
func SplitIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- helpers below ---

// applyFields copies supplied fields onto r. On create every text field and
// the ingredient list are required; on update empty values are skipped.
func applyFields(r *models.Recipe, f models.RecipeFields, create bool) error {
	text := []struct {
		val  *string
		dst  *string
		name string
	}{
		{f.Title, &r.Title, "Title"},
		{f.Description, &r.Description, "Description"},
		{f.Instructions, &r.Instructions, "Instructions"},
	}
	for _, t := range text {
		v := ""
		if t.val != nil {
			v = strings.TrimSpace(*t.val)
		}
		if v == "" {
			if create {
				return common.Invalid(t.name + " is required")
			}
			continue
		}
		*t.dst = v
	}

	ingredients := cleanIngredients(f.Ingredients)
	switch {
	case len(ingredients) > 0:
		r.Ingredients = ingredients
	case create:
		return common.Invalid("Ingredients are required")
	}

	if f.Category != nil {
		c := strings.TrimSpace(*f.Category)
		if c != "" && !models.IsKnownCategory(c) {
			return common.Invalid(fmt.Sprintf("Unknown category %q", c))
		}
		if c != "" || create {
			r.Category = c
		}
	}
	return nil
}

func cleanIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *RecipeService) storeImage(ctx context.Context, img *ImageUpload) (key, url string, err error) {
	if err := images.CheckUpload(img.Filename, img.ContentType); err != nil {
		return "", "", err
	}
	if len(img.Data) > images.MaxUploadSize {
		return "", "", common.Invalid("Image is too large")
	}

	data, err := images.Normalize(bytes.NewReader(img.Data))
	if err != nil {
		return "", "", common.Invalid("Image could not be decoded")
	}

	key = images.NewKey()
	url, err = s.images.Put(ctx, key, images.ContentType, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("error storing image: %w", err)
	}
	return key, url, nil
}

func (s *RecipeService) deleteImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		metrics.ImageDeleteFailures.Inc()
		s.logger.Warn(ctx, "image delete failed", "key", key, "error", err)
	}
}
