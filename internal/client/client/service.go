package client

import (
	"context"

	"github.com/dmitrijs2005/recipeshare/internal/client/models"
)

// Client is the API surface used by the CLI.
type Client interface {
	Register(ctx context.Context, name, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error

	ListRecipes(ctx context.Context, term, category string, page int) (*models.RecipePage, error)
	Suggest(ctx context.Context, term string) ([]models.Suggestion, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	MyRecipes(ctx context.Context) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, r models.NewRecipe) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	Rate(ctx context.Context, id string, value int) (*models.Recipe, error)
	AddComment(ctx context.Context, id, text string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id, commentID string) ([]models.Comment, error)

	ToggleFavorite(ctx context.Context, recipeID string) ([]string, error)
	Favorites(ctx context.Context) ([]models.Recipe, error)
	Profile(ctx context.Context, userID string) (*models.Profile, error)

	SearchExternal(ctx context.Context, term string) ([]models.Recipe, error)
}
