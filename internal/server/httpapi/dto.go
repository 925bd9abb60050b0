package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/images"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/services"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const maxJSONBody = 1 << 20

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// commentRequest carries only the text. The author name always comes from
// the authenticated user.
type commentRequest struct {
	Text string `json:"text"`
}

// recipeRequest is the JSON form of a recipe write. Ingredients may be a
// list or a comma separated string.
type recipeRequest struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Instructions *string         `json:"instructions"`
	Ingredients  json.RawMessage `json:"ingredients"`
	Category     *string         `json:"category"`
}

// recipeView adds the derived rating fields to a stored recipe.
type recipeView struct {
	*models.Recipe
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int      `json:"ratingCount"`
}

func viewOf(r *models.Recipe) recipeView {
	v := recipeView{Recipe: r, RatingCount: len(r.Ratings)}
	if avg, ok := models.AverageRating(r.Ratings); ok {
		v.AverageRating = &avg
	}
	return v
}

func viewsOf(rs []*models.Recipe) []recipeView {
	out := make([]recipeView, 0, len(rs))
	for _, r := range rs {
		out = append(out, viewOf(r))
	}
	return out
}

type recipePageResponse struct {
	Recipes []recipeView `json:"recipes"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
}

// decodeJSON reads a JSON body into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.Invalid("Request body is required")
		}
		return common.Invalid("Invalid request body")
	}
	if err := services.ValidateStruct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return common.Invalid(fieldMessage(verrs[0]))
		}
		return common.Invalid("Invalid request body")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "email":
		return "Please include a valid email"
	default:
		return fe.Field() + " is required"
	}
}

// readRecipeForm parses a multipart or JSON recipe write.
func readRecipeForm(w http.ResponseWriter, r *http.Request) (models.RecipeFields, *services.ImageUpload, error) {
	if !isMultipart(r) {
		var req recipeRequest
		if err := decodeJSON(r, &req); err != nil {
			return models.RecipeFields{}, nil, err
		}
		ingredients, err := parseIngredients(req.Ingredients)
		if err != nil {
			return models.RecipeFields{}, nil, err
		}
		return models.RecipeFields{
			Title:        req.Title,
			Description:  req.Description,
			Instructions: req.Instructions,
			Ingredients:  ingredients,
			Category:     req.Category,
		}, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, images.MaxUploadSize+maxJSONBody)
	if err := r.ParseMultipartForm(images.MaxUploadSize); err != nil {
		return models.RecipeFields{}, nil, common.Invalid("Invalid form data")
	}

	f := models.RecipeFields{
		Title:        formValue(r, "title"),
		Description:  formValue(r, "description"),
		Instructions: formValue(r, "instructions"),
		Category:     formValue(r, "category"),
	}
	for _, raw := range r.MultipartForm.Value["ingredients"] {
		f.Ingredients = append(f.Ingredients, services.SplitIngredients(raw)...)
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return f, nil, nil
	}
	if err != nil {
		return f, nil, common.Invalid("Invalid image upload")
	}
	defer file.Close()

	if header.Size > images.MaxUploadSize {
		return f, nil, common.Invalid("Image is too large")
	}
	data, err := io.ReadAll(io.LimitReader(file, images.MaxUploadSize+1))
	if err != nil {
		return f, nil, common.Invalid("Invalid image upload")
	}

	return f, &services.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formValue(r *http.Request, key string) *string {
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

func parseIngredients(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, common.Invalid("Ingredients must be a list or a comma separated string")
	}
	return services.SplitIngredients(s), nil
}

// pageParam treats missing or unparsable values as the first page.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil {
		return 1
	}
	return p
}
