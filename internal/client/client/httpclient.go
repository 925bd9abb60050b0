package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipeshare/internal/client/models"
	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/goccy/go-json"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

type tokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type msgBody struct {
	Msg string `json:"msg"`
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(serverURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(serverURL, "/") + "/api",
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) setTokens(p tokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = p.Token
	c.refreshToken = p.RefreshToken
}

// LoggedIn reports whether the client holds an access token.
func (c *HTTPClient) LoggedIn() bool {
	access, _ := c.tokens()
	return access != ""
}

func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) error {
	var p tokenPair
	body := map[string]string{"name": name, "email": email, "password": string(password)}
	if err := c.send(ctx, http.MethodPost, "/auth/register", body, &p, false); err != nil {
		return err
	}
	c.setTokens(p)
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) error {
	var p tokenPair
	body := map[string]string{"email": email, "password": string(password)}
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &p, false); err != nil {
		return err
	}
	c.setTokens(p)
	return nil
}

// Logout revokes the refresh tokens on the server and forgets the local pair.
func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.send(ctx, http.MethodPost, "/auth/logout", nil, nil, true)
	c.setTokens(tokenPair{})
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.send(ctx, http.MethodGet, "/auth/me", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/health", nil, nil, false)
}

func (c *HTTPClient) ListRecipes(ctx context.Context, term, category string, page int) (*models.RecipePage, error) {
	q := url.Values{}
	if term != "" {
		q.Set("search", term)
	}
	if category != "" {
		q.Set("category", category)
	}
	q.Set("page", strconv.Itoa(page))

	var p models.RecipePage
	if err := c.send(ctx, http.MethodGet, "/recipes?"+q.Encode(), nil, &p, false); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Suggest(ctx context.Context, term string) ([]models.Suggestion, error) {
	var out []models.Suggestion
	err := c.send(ctx, http.MethodGet, "/recipes/suggestions?search="+url.QueryEscape(term), nil, &out, false)
	return out, err
}

func (c *HTTPClient) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var r models.Recipe
	if err := c.send(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id), nil, &r, false); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) MyRecipes(ctx context.Context) ([]models.Recipe, error) {
	var out []models.Recipe
	err := c.send(ctx, http.MethodGet, "/recipes/my", nil, &out, true)
	return out, err
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, r models.NewRecipe) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.send(ctx, http.MethodPost, "/recipes", r, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil, nil, true)
}

func (c *HTTPClient) Rate(ctx context.Context, id string, value int) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.send(ctx, http.MethodPut, "/recipes/"+url.PathEscape(id)+"/rate", map[string]int{"rating": value}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AddComment(ctx context.Context, id, text string) ([]models.Comment, error) {
	var out []models.Comment
	err := c.send(ctx, http.MethodPost, "/recipes/"+url.PathEscape(id)+"/comment", map[string]string{"text": text}, &out, true)
	return out, err
}

func (c *HTTPClient) DeleteComment(ctx context.Context, id, commentID string) ([]models.Comment, error) {
	var out []models.Comment
	err := c.send(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id)+"/comment/"+url.PathEscape(commentID), nil, &out, true)
	return out, err
}

func (c *HTTPClient) ToggleFavorite(ctx context.Context, recipeID string) ([]string, error) {
	var out []string
	err := c.send(ctx, http.MethodPut, "/users/favorites/"+url.PathEscape(recipeID), nil, &out, true)
	return out, err
}

func (c *HTTPClient) Favorites(ctx context.Context) ([]models.Recipe, error) {
	var out []models.Recipe
	err := c.send(ctx, http.MethodGet, "/users/favorites", nil, &out, true)
	return out, err
}

func (c *HTTPClient) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := c.send(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &p, false); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) SearchExternal(ctx context.Context, term string) ([]models.Recipe, error) {
	var out []models.Recipe
	err := c.send(ctx, http.MethodGet, "/external-recipes/search?search="+url.QueryEscape(term), nil, &out, false)
	return out, err
}

// send performs one API call. With auth set, an expired access token is
// refreshed once and the call retried.
func (c *HTTPClient) send(ctx context.Context, method, path string, in, out any, auth bool) error {
	err := c.do(ctx, method, path, in, out, auth)
	if !auth || !errors.Is(err, ErrUnauthorized) {
		return err
	}

	_, refresh := c.tokens()
	if refresh == "" {
		return err
	}
	var p tokenPair
	if rerr := c.do(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refresh}, &p, false); rerr != nil {
		return err
	}
	c.setTokens(p)

	return c.do(ctx, method, path, in, out, auth)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		access, _ := c.tokens()
		if access == "" {
			return ErrUnauthorized
		}
		req.Header.Set(common.AccessTokenHeaderName, access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		var m msgBody
		_ = json.Unmarshal(data, &m)
		return &APIError{Status: resp.StatusCode, Msg: m.Msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
