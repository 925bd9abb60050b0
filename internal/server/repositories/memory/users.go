package memory

import (
	"context"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.emails[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = newID()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = cloneUser(user)
	r.s.emails[user.Email] = user.ID

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[recipeID]; !ok {
		return false, common.ErrorNotFound
	}

	favs := r.s.favorites[userID]
	for i, f := range favs {
		if f.recipeID == recipeID {
			r.s.favorites[userID] = append(favs[:i:i], favs[i+1:]...)
			return false, nil
		}
	}

	r.s.favorites[userID] = append(favs, favorite{recipeID: recipeID, seq: r.s.next()})
	return true, nil
}

func (r *UserRepository) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []string{}
	for _, f := range r.s.favorites[userID] {
		ids = append(ids, f.recipeID)
	}
	return ids, nil
}
