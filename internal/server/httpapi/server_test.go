package httpapi

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipeshare/internal/logging"
	"github.com/dmitrijs2005/recipeshare/internal/server/config"
	"github.com/dmitrijs2005/recipeshare/internal/server/external"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipeshare/internal/server/services"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memImages struct{}

func (memImages) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	return "http://img/" + key, nil
}

func (memImages) Delete(ctx context.Context, key string) error { return nil }

type fakeExternal struct {
	result []models.ExternalRecipe
	err    error
}

func (f *fakeExternal) Search(ctx context.Context, term string) ([]models.ExternalRecipe, error) {
	return f.result, f.err
}

type testAPI struct {
	srv      *httptest.Server
	external *fakeExternal
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{
		HTTPAddr:                     ":0",
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
		CORSOrigins:                  []string{"*"},
		ImageBackend:                 config.ImagesS3,
	}
	m := repomanager.NewInMemoryRepositoryManager()
	us := services.NewUserService(nil, m, cfg)
	rs := services.NewRecipeService(nil, m, memImages{}, logging.Nop{})
	ext := &fakeExternal{result: []models.ExternalRecipe{}}

	s := NewHTTPServer(cfg, logging.Nop{}, us, rs, ext)
	s.authRateLimit = 1000

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, external: ext}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (a *testAPI) register(t *testing.T, name, email string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var tr tokenResponse
	require.NoError(t, json.Unmarshal(body, &tr))
	return tr.Token
}

func (a *testAPI) create(t *testing.T, token, title string) map[string]any {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/recipes", token, map[string]any{
		"title": title, "description": "d", "instructions": "i", "ingredients": "Flour, Sugar",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func msgOf(t *testing.T, body []byte) string {
	t.Helper()
	var m msgResponse
	require.NoError(t, json.Unmarshal(body, &m))
	return m.Msg
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "Ann", "ann@example.com")

	status, body := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", msgOf(t, body))

	status, body = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ann@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", msgOf(t, body))

	status, body = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please include a valid email", msgOf(t, body))

	status, body = a.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"email":"ann@example.com"`)
	assert.NotContains(t, string(body), "PasswordHash")
}

func TestAuthMiddleware(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "Ann", "ann@example.com")

	status, body := a.do(t, http.MethodGet, "/api/recipes/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "No token, authorization denied", msgOf(t, body))

	status, body = a.do(t, http.MethodGet, "/api/recipes/my", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token is not valid", msgOf(t, body))

	req, err := http.NewRequest(http.MethodGet, a.srv.URL+"/api/recipes/my", nil)
	require.NoError(t, err)
	req.Header.Set("x-auth-token", token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecipeRoutes(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register(t, "Ann", "ann@example.com")
	other := a.register(t, "Ben", "ben@example.com")

	created := a.create(t, owner, "Chicken Rice Bowl")
	id := created["id"].(string)
	assert.Equal(t, "Ann", created["author"])
	assert.Nil(t, created["averageRating"])
	assert.Equal(t, []any{"Flour", "Sugar"}, created["ingredients"])

	status, body := a.do(t, http.MethodGet, "/api/recipes?search=rice+chicken&page=abc", "", nil)
	require.Equal(t, http.StatusOK, status)
	var page recipePageResponse
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Pages)
	require.Len(t, page.Recipes, 1)

	status, body = a.do(t, http.MethodGet, "/api/recipes/suggestions?search=ch", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Chicken Rice Bowl")

	status, body = a.do(t, http.MethodGet, "/api/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Recipe not found", msgOf(t, body))

	status, body = a.do(t, http.MethodPut, "/api/recipes/"+id, other, map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized", msgOf(t, body))

	status, body = a.do(t, http.MethodPut, "/api/recipes/"+id+"/rate", owner, map[string]int{"rating": 5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You cannot rate your own recipe", msgOf(t, body))

	status, _ = a.do(t, http.MethodPut, "/api/recipes/"+id+"/rate", other, map[string]int{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodPut, "/api/recipes/"+id+"/rate", other, map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, status)
	var rated map[string]any
	require.NoError(t, json.Unmarshal(body, &rated))
	assert.Equal(t, 4.0, rated["averageRating"])
	assert.Equal(t, 1.0, rated["ratingCount"])

	status, body = a.do(t, http.MethodDelete, "/api/recipes/"+id, other, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(t, http.MethodDelete, "/api/recipes/"+id, owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Recipe removed", msgOf(t, body))

	status, _ = a.do(t, http.MethodGet, "/api/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCommentRoutes(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register(t, "Ann", "ann@example.com")
	ben := a.register(t, "Ben", "ben@example.com")
	id := a.create(t, owner, "Pie")["id"].(string)

	status, body := a.do(t, http.MethodPost, "/api/recipes/"+id+"/comment", ben, map[string]string{"text": "yum"})
	require.Equal(t, http.StatusOK, status)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(body, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Ben", comments[0].AuthorName)

	path := "/api/recipes/" + id + "/comment/" + comments[0].ID
	status, _ = a.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(t, http.MethodDelete, path, ben, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))

	status, body = a.do(t, http.MethodDelete, path, ben, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Comment does not exist", msgOf(t, body))
}

func TestAddComment_IgnoresNameInBody(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register(t, "Ann", "ann@example.com")
	ben := a.register(t, "Ben", "ben@example.com")
	id := a.create(t, owner, "Pie")["id"].(string)

	status, body := a.do(t, http.MethodPost, "/api/recipes/"+id+"/comment", ben,
		map[string]string{"text": "great", "name": "Ann"})
	require.Equal(t, http.StatusOK, status)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(body, &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Ben", comments[0].AuthorName)

	status, body = a.do(t, http.MethodGet, "/api/recipes/"+id, "", nil)
	require.Equal(t, http.StatusOK, status)
	var stored models.Recipe
	require.NoError(t, json.Unmarshal(body, &stored))
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "Ben", stored.Comments[0].AuthorName)
}

func TestFavoritesAndProfile(t *testing.T) {
	a := newTestAPI(t)
	owner := a.register(t, "Ann", "ann@example.com")
	created := a.create(t, owner, "Soup")
	id := created["id"].(string)

	status, body := a.do(t, http.MethodPut, "/api/users/favorites/"+id, owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["`+id+`"]`, string(body))

	status, body = a.do(t, http.MethodGet, "/api/users/favorites", owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Soup")

	status, body = a.do(t, http.MethodGet, "/api/users/"+created["user"].(string), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"name":"Ann"`)

	status, body = a.do(t, http.MethodGet, "/api/users/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", msgOf(t, body))
}

func TestCreateRecipe_Multipart(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "Ann", "ann@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title": "Tart", "description": "d", "instructions": "i",
		"ingredients": "Flour, Sugar, Eggs", "category": "Dessert",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="tart.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+"/api/recipes", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, []any{"Flour", "Sugar", "Eggs"}, out["ingredients"])
	assert.Equal(t, "Dessert", out["category"])
	assert.True(t, strings.HasPrefix(out["imageUrl"].(string), "http://img/recipes/"))
}

func TestExternalSearch(t *testing.T) {
	a := newTestAPI(t)
	a.external.result = []models.ExternalRecipe{{ID: "external-1", Title: "Arrabiata", IsExternal: true}}

	status, body := a.do(t, http.MethodGet, "/api/external-recipes/search?search=pasta", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"isExternal":true`)

	a.external.err = external.ErrUnavailable
	status, _ = a.do(t, http.MethodGet, "/api/external-recipes/search?search=pasta", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestAPI(t)

	status, body := a.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, body = a.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "recipeshare_http_requests_total")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{HTTPAddr: "127.0.0.1:0", SecretKey: "x"}
	s := NewHTTPServer(cfg, logging.Nop{}, nil, nil, &fakeExternal{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
