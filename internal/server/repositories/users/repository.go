// Package users declares the account storage contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/recipeshare/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills ID and CreatedAt. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// ToggleFavorite flips membership of recipeID in the user's favorites and
	// reports whether it is now a member.
	ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	FavoriteIDs(ctx context.Context, userID string) ([]string, error)
}
