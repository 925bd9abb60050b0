package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/dbx"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/search"
	"github.com/goccy/go-json"
)

// selectRecipe loads a recipe row with its ratings and comments aggregated
// as JSON arrays.
const selectRecipe = `SELECT r.id, r.user_id, r.title, r.description, r.instructions, r.ingredients,
		r.category, r.image_url, r.image_key, r.author, r.created_at,
		COALESCE((SELECT jsonb_agg(jsonb_build_object('user', rr.user_id, 'value', rr.value) ORDER BY rr.created_at)
			FROM recipe_ratings rr WHERE rr.recipe_id = r.id), '[]'::jsonb) AS ratings,
		COALESCE((SELECT jsonb_agg(jsonb_build_object('id', c.id, 'user', c.user_id, 'name', c.name, 'text', c.text, 'date', c.created_at) ORDER BY c.created_at DESC)
			FROM recipe_comments c WHERE c.recipe_id = r.id), '[]'::jsonb) AS comments
	FROM recipes r`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (*models.Recipe, error) {
	var r models.Recipe
	var ingredients, ratings, comments []byte

	err := row.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.Instructions, &ingredients,
		&r.Category, &r.ImageURL, &r.ImageKey, &r.AuthorName, &r.CreatedAt, &ratings, &comments)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(ingredients, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal(ratings, &r.Ratings); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}
	if err := json.Unmarshal(comments, &r.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	return &r, nil
}

func (r *PostgresRepository) queryRecipes(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("encode ingredients: %w", err)
	}

	query :=
		`INSERT INTO recipes (user_id, title, description, instructions, ingredients, category, image_url, image_key, author)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		recipe.OwnerID, recipe.Title, recipe.Description, recipe.Instructions, string(ingredients),
		recipe.Category, recipe.ImageURL, recipe.ImageKey, recipe.AuthorName,
	).Scan(&recipe.ID, &recipe.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if recipe.Ratings == nil {
		recipe.Ratings = []models.Rating{}
	}
	if recipe.Comments == nil {
		recipe.Comments = []models.Comment{}
	}

	return recipe, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, selectRecipe+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return recipe, nil
}

func (r *PostgresRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}

	query :=
		`UPDATE recipes
		 SET title = $2, description = $3, instructions = $4, ingredients = $5,
		     category = $6, image_url = $7, image_key = $8
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		recipe.ID, recipe.Title, recipe.Description, recipe.Instructions, string(ingredients),
		recipe.Category, recipe.ImageURL, recipe.ImageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, filter search.Filter, limit, offset int) ([]*models.Recipe, error) {
	where, args := filter.SQL("r", 1)
	n := len(args)
	query := fmt.Sprintf("%s WHERE %s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d", selectRecipe, where, n+1, n+2)
	args = append(args, limit, offset)

	return r.queryRecipes(ctx, query, args...)
}

func (r *PostgresRepository) Count(ctx context.Context, filter search.Filter) (int, error) {
	where, args := filter.SQL("r", 1)

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes r WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Suggest(ctx context.Context, term string, limit int) ([]models.Suggestion, error) {
	query :=
		`SELECT id, title FROM recipes
		 WHERE title ILIKE $1
		 ORDER BY (title ILIKE $2) DESC, created_at DESC
		 LIMIT $3
		 `

	escaped := search.EscapeLike(term)
	rows, err := r.db.QueryContext(ctx, query, "%"+escaped+"%", escaped+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Suggestion{}
	for rows.Next() {
		var s models.Suggestion
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Recipe, error) {
	return r.queryRecipes(ctx, selectRecipe+` WHERE r.user_id = $1 ORDER BY r.created_at DESC`, ownerID)
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID string) ([]*models.Recipe, error) {
	query := selectRecipe + ` JOIN favorites f ON f.recipe_id = r.id WHERE f.user_id = $1 ORDER BY r.created_at DESC`
	return r.queryRecipes(ctx, query, userID)
}

func (r *PostgresRepository) UpsertRating(ctx context.Context, recipeID, userID string, value int) error {
	query :=
		`INSERT INTO recipe_ratings (recipe_id, user_id, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (recipe_id, user_id) DO UPDATE SET value = EXCLUDED.value
		 `

	if _, err := r.db.ExecContext(ctx, query, recipeID, userID, value); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddComment(ctx context.Context, recipeID string, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO recipe_comments (recipe_id, user_id, name, text)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, recipeID, comment.UserID, comment.AuthorName, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) GetComment(ctx context.Context, recipeID, commentID string) (*models.Comment, error) {
	query :=
		`SELECT id, user_id, name, text, created_at FROM recipe_comments
		 WHERE id = $1 AND recipe_id = $2
		 `

	var c models.Comment
	err := r.db.QueryRowContext(ctx, query, commentID, recipeID).
		Scan(&c.ID, &c.UserID, &c.AuthorName, &c.Text, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) DeleteComment(ctx context.Context, recipeID, commentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipe_comments WHERE id = $1 AND recipe_id = $2`, commentID, recipeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Comments(ctx context.Context, recipeID string) ([]models.Comment, error) {
	query :=
		`SELECT id, user_id, name, text, created_at FROM recipe_comments
		 WHERE recipe_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
