package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/dbx"
	"github.com/dmitrijs2005/recipeshare/internal/logging"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventLog records store calls across fakes in order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.events...)
}

type fakeImages struct {
	log       *eventLog
	putErr    error
	deleteErr error
	stored    map[string][]byte
}

func (f *fakeImages) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, _ := io.ReadAll(r)
	if f.stored == nil {
		f.stored = map[string][]byte{}
	}
	f.stored[key] = b
	f.log.add("put " + key)
	return "http://img/" + key, nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	f.log.add("delete-image " + key)
	return f.deleteErr
}

type recordingRecipes struct {
	recipes.Repository
	log       *eventLog
	createErr error
}

func (r *recordingRecipes) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.Repository.Create(ctx, recipe)
}

func (r *recordingRecipes) Delete(ctx context.Context, id string) error {
	r.log.add("delete-row " + id)
	return r.Repository.Delete(ctx, id)
}

type recordingManager struct {
	repomanager.RepositoryManager
	recipes *recordingRecipes
}

func (m *recordingManager) Recipes(db dbx.DBTX) recipes.Repository {
	return m.recipes
}

type fixture struct {
	svc    *RecipeService
	users  *UserService
	images *fakeImages
	repo   *recordingRecipes
	log    *eventLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := repomanager.NewInMemoryRepositoryManager()
	log := &eventLog{}
	repo := &recordingRecipes{Repository: base.Recipes(nil), log: log}
	m := &recordingManager{RepositoryManager: base, recipes: repo}
	img := &fakeImages{log: log}
	return &fixture{
		svc:    NewRecipeService(nil, m, img, logging.Nop{}),
		users:  NewUserService(nil, m, testConfig()),
		images: img,
		repo:   repo,
		log:    log,
	}
}

func strp(s string) *string { return &s }

func fields(title string) models.RecipeFields {
	return models.RecipeFields{
		Title:        strp(title),
		Description:  strp("tasty"),
		Instructions: strp("cook it"),
		Ingredients:  []string{"salt"},
	}
}

func pngUpload(t *testing.T) *ImageUpload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1600, 400))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &ImageUpload{Filename: "dish.png", ContentType: "image/png", Data: buf.Bytes()}
}

func (f *fixture) recipe(t *testing.T, owner, title string) *models.Recipe {
	t.Helper()
	r, err := f.svc.Create(context.Background(), owner, fields(title), nil)
	require.NoError(t, err)
	return r
}

func TestRecipeService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")

	fs := fields("  Pancakes ")
	fs.Category = strp("Breakfast")
	r, err := f.svc.Create(ctx, owner, fs, pngUpload(t))
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", r.Title)
	assert.Equal(t, "Ann", r.AuthorName)
	assert.Equal(t, "Breakfast", r.Category)
	assert.Equal(t, "http://img/"+r.ImageKey, r.ImageURL)
	require.Contains(t, f.images.stored, r.ImageKey)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(f.images.stored[r.ImageKey]))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestRecipeService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	owner := register(t, f.users, "Ann", "ann@example.com")

	noTitle := fields("")
	noIngredients := fields("x")
	noIngredients.Ingredients = SplitIngredients(" , ")
	badCategory := fields("x")
	badCategory.Category = strp("dessert")

	for name, fs := range map[string]models.RecipeFields{
		"title":       noTitle,
		"ingredients": noIngredients,
		"category":    badCategory,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), owner, fs, nil)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}

	_, err := f.svc.Create(context.Background(), owner, fields("x"), &ImageUpload{Filename: "a.gif", ContentType: "image/gif"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, f.log.list())
}

func TestRecipeService_Create_RemovesImageWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	owner := register(t, f.users, "Ann", "ann@example.com")
	f.repo.createErr = errors.New("db down")

	_, err := f.svc.Create(context.Background(), owner, fields("x"), pngUpload(t))
	require.Error(t, err)

	events := f.log.list()
	require.Len(t, events, 2)
	assert.Regexp(t, "^put ", events[0])
	assert.Regexp(t, "^delete-image ", events[1])
}

func TestRecipeService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")
	other := register(t, f.users, "Ben", "ben@example.com")

	r, err := f.svc.Create(ctx, owner, fields("Soup"), pngUpload(t))
	require.NoError(t, err)
	oldKey := r.ImageKey

	_, err = f.svc.Update(ctx, r.ID, other, models.RecipeFields{Title: strp("Hijack")}, nil)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = f.svc.Update(ctx, "missing", owner, models.RecipeFields{}, nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	updated, err := f.svc.Update(ctx, r.ID, owner, models.RecipeFields{
		Title:       strp("Better Soup"),
		Description: strp("   "),
	}, pngUpload(t))
	require.NoError(t, err)

	assert.Equal(t, "Better Soup", updated.Title)
	assert.Equal(t, "tasty", updated.Description)
	assert.NotEqual(t, oldKey, updated.ImageKey)
	assert.Contains(t, f.log.list(), "delete-image "+oldKey)
}

func TestRecipeService_Delete_Ordering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")
	other := register(t, f.users, "Ben", "ben@example.com")

	r, err := f.svc.Create(ctx, owner, fields("Cake"), pngUpload(t))
	require.NoError(t, err)
	before := len(f.log.list())

	assert.ErrorIs(t, f.svc.Delete(ctx, r.ID, other), common.ErrorForbidden)
	assert.Len(t, f.log.list(), before)

	require.NoError(t, f.svc.Delete(ctx, r.ID, owner))
	assert.Equal(t, []string{"delete-image " + r.ImageKey, "delete-row " + r.ID}, f.log.list()[before:])

	_, err = f.svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecipeService_Delete_ImageFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")

	r, err := f.svc.Create(ctx, owner, fields("Cake"), pngUpload(t))
	require.NoError(t, err)
	f.images.deleteErr = errors.New("bucket gone")

	require.NoError(t, f.svc.Delete(ctx, r.ID, owner))
}

func TestRecipeService_Rate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")
	rater := register(t, f.users, "Ben", "ben@example.com")
	r := f.recipe(t, owner, "Stew")

	for _, v := range []int{0, 6} {
		_, err := f.svc.Rate(ctx, r.ID, rater, v)
		assert.ErrorIs(t, err, common.ErrorValidation, "value %d", v)
	}
	for v := 1; v <= 5; v++ {
		_, err := f.svc.Rate(ctx, r.ID, owner, v)
		assert.ErrorIs(t, err, common.ErrorForbidden)
		assert.ErrorIs(t, err, common.ErrSelfRating)
	}

	_, err := f.svc.Rate(ctx, "bogus", rater, 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	for _, v := range []int{1, 5, 4} {
		got, err := f.svc.Rate(ctx, r.ID, rater, v)
		require.NoError(t, err)
		require.Len(t, got.Ratings, 1)
		assert.Equal(t, v, got.RatingOf(rater))
	}
}

func TestRecipeService_Comments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")
	ben := register(t, f.users, "Ben", "ben@example.com")
	r := f.recipe(t, owner, "Pie")

	_, err := f.svc.AddComment(ctx, r.ID, ben, "   ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	first, err := f.svc.AddComment(ctx, r.ID, ben, " first ")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Ben", first[0].AuthorName)
	assert.Equal(t, "first", first[0].Text)

	list, err := f.svc.AddComment(ctx, r.ID, ben, "second")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Text)
	assert.Equal(t, "Ben", list[0].AuthorName)

	// recipe ownership grants nothing over other people's comments
	_, err = f.svc.DeleteComment(ctx, r.ID, owner, list[0].ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	left, err := f.svc.DeleteComment(ctx, r.ID, ben, list[0].ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	_, err = f.svc.DeleteComment(ctx, r.ID, ben, list[0].ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.svc.AddComment(ctx, "bogus", ben, "hi")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecipeService_ListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")

	for i := 0; i < 17; i++ {
		f.recipe(t, owner, fmt.Sprintf("Chicken Rice %d", i))
	}
	f.recipe(t, owner, "Beef")

	sizes := []int{8, 8, 1, 0}
	for i, want := range sizes {
		page, err := f.svc.List(ctx, "rice chicken", "", i+1)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Pages)
		assert.Equal(t, i+1, page.Page)
		assert.Len(t, page.Recipes, want, "page %d", i+1)
	}

	page, err := f.svc.List(ctx, "", "", -4)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "Beef", page.Recipes[0].Title)

	page, err = f.svc.List(ctx, "nothing-matches", "", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pages)
	assert.Empty(t, page.Recipes)
}

func TestRecipeService_ListCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")

	for _, c := range []string{"Dessert", "Dinner", "Dessert", ""} {
		fs := fields("dish")
		fs.Category = strp(c)
		_, err := f.svc.Create(ctx, owner, fs, nil)
		require.NoError(t, err)
	}

	page, err := f.svc.List(ctx, "", "Dessert", 1)
	require.NoError(t, err)
	require.Len(t, page.Recipes, 2)
	for _, r := range page.Recipes {
		assert.Equal(t, "Dessert", r.Category)
	}

	page, err = f.svc.List(ctx, "", "dessert", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Recipes)
}

func TestRecipeService_Suggest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := register(t, f.users, "Ann", "ann@example.com")

	f.recipe(t, owner, "Apple Pie")
	f.recipe(t, owner, "Pineapple Tart")

	got, err := f.svc.Suggest(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.svc.Suggest(ctx, " PIE ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Apple Pie", got[0].Title)

	got, err = f.svc.Suggest(ctx, "ap")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Apple Pie", got[0].Title)
}

func TestRecipeService_ListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := register(t, f.users, "Ann", "ann@example.com")
	ben := register(t, f.users, "Ben", "ben@example.com")

	f.recipe(t, ann, "A")
	f.recipe(t, ben, "B")

	mine, err := f.svc.ListMine(ctx, ann)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Title)
}

func TestSplitIngredients(t *testing.T) {
	assert.Equal(t, []string{"Flour", "Sugar", "Eggs"}, SplitIngredients("Flour, Sugar, Eggs"))
	assert.Equal(t, []string{"a", "b"}, SplitIngredients(" a ,, b ,"))
	assert.Empty(t, SplitIngredients(""))
}
