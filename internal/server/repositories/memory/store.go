// Package memory keeps users, recipes and refresh tokens in process memory.
// It backs the "memory" storage mode and the service tests. All repositories
// vended by one Store share its state and its lock.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/google/uuid"
)

type recipeRow struct {
	recipe *models.Recipe
	seq    int64
}

type favorite struct {
	recipeID string
	seq      int64
}

// Store is the shared state behind the in-memory repositories.
type Store struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	users     map[string]*models.User
	emails    map[string]string
	recipes   map[string]*recipeRow
	favorites map[string][]favorite
	tokens    map[string]*models.RefreshToken
}

func NewStore() *Store {
	return &Store{
		now:       time.Now,
		users:     make(map[string]*models.User),
		emails:    make(map[string]string),
		recipes:   make(map[string]*recipeRow),
		favorites: make(map[string][]favorite),
		tokens:    make(map[string]*models.RefreshToken),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Recipes returns the recipe repository view of the store.
func (s *Store) Recipes() *RecipeRepository { return &RecipeRepository{s: s} }

// RefreshTokens returns the refresh token repository view of the store.
func (s *Store) RefreshTokens() *RefreshTokenRepository { return &RefreshTokenRepository{s: s} }

// next must be called with mu held for writing.
func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func newID() string {
	return uuid.NewString()
}

// newestFirst returns the rows accepted by keep ordered by creation time
// descending; insertion order breaks ties. Caller holds mu.
func (s *Store) newestFirst(keep func(*models.Recipe) bool) []*recipeRow {
	var rows []*recipeRow
	for _, row := range s.recipes {
		if keep(row.recipe) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.recipe.CreatedAt.Equal(b.recipe.CreatedAt) {
			return a.recipe.CreatedAt.After(b.recipe.CreatedAt)
		}
		return a.seq > b.seq
	})
	return rows
}

func cloneRecipe(r *models.Recipe) *models.Recipe {
	c := *r
	c.Ingredients = append([]string{}, r.Ingredients...)
	c.Ratings = append([]models.Rating{}, r.Ratings...)
	c.Comments = append([]models.Comment{}, r.Comments...)
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.Favorites = nil
	return &c
}
