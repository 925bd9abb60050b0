// Package recipes declares the recipe store contract and its PostgreSQL
// implementation. Ratings and comments live in their own tables and are
// mutated with single statements, so concurrent raters and commenters never
// overwrite each other.
package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/search"
)

// Repository stores recipes together with their ratings and comments.
// Every list is ordered newest first.
type Repository interface {
	// Create inserts the recipe and fills ID and CreatedAt.
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	// Get returns the recipe with its ratings and comments, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Recipe, error)
	// Update overwrites the owner-editable columns and the image reference.
	Update(ctx context.Context, recipe *models.Recipe) error
	// Delete removes the recipe; ratings, comments and favorites go with it.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter search.Filter, limit, offset int) ([]*models.Recipe, error)
	Count(ctx context.Context, filter search.Filter) (int, error)
	// Suggest returns up to limit titles containing term, prefix matches first.
	Suggest(ctx context.Context, term string, limit int) ([]models.Suggestion, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Recipe, error)
	ListFavorites(ctx context.Context, userID string) ([]*models.Recipe, error)

	// UpsertRating sets userID's rating, replacing any previous value.
	UpsertRating(ctx context.Context, recipeID, userID string, value int) error

	// AddComment prepends a comment and fills its ID and CreatedAt.
	AddComment(ctx context.Context, recipeID string, comment *models.Comment) (*models.Comment, error)
	GetComment(ctx context.Context, recipeID, commentID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, recipeID, commentID string) error
	Comments(ctx context.Context, recipeID string) ([]models.Comment, error)
}
