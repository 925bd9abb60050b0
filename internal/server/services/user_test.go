package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipeshare/internal/common"
	"github.com/dmitrijs2005/recipeshare/internal/server/auth"
	"github.com/dmitrijs2005/recipeshare/internal/server/config"
	"github.com/dmitrijs2005/recipeshare/internal/server/models"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
}

func newUserService(t *testing.T) (*UserService, repomanager.RepositoryManager) {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	return NewUserService(nil, m, testConfig()), m
}

func register(t *testing.T, s *UserService, name, email string) string {
	t.Helper()
	pair, err := s.Register(context.Background(), name, email, "secret1")
	require.NoError(t, err)
	id, err := auth.GetUserIDFromToken(pair.AccessToken, s.jwtSecret)
	require.NoError(t, err)
	return id
}

func TestUserService_Register(t *testing.T) {
	s, m := newUserService(t)
	ctx := context.Background()

	pair, err := s.Register(ctx, " Alice ", "Alice@Example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)

	u, err := m.Users(nil).GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.NotEqual(t, []byte("secret1"), u.PasswordHash)

	_, err = s.Register(ctx, "Other", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.EqualError(t, err, "User already exists")
}

func TestUserService_Register_Validation(t *testing.T) {
	s, _ := newUserService(t)

	tests := []struct {
		name, user, email, password, msg string
	}{
		{"no name", "  ", "a@b.co", "secret1", "Name is required"},
		{"bad email", "A", "not-an-email", "secret1", "Please include a valid email"},
		{"short password", "A", "a@b.co", "12345", "Please enter a password with 6 or more characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.user, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()
	register(t, s, "Bob", "bob@example.com")

	pair, err := s.Login(ctx, "BOB@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = s.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUserService_RefreshToken_Rotates(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	pair, err := s.Register(ctx, "Carol", "carol@example.com", "secret1")
	require.NoError(t, err)

	next, err := s.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUserService_RefreshToken_Expired(t *testing.T) {
	s, m := newUserService(t)
	ctx := context.Background()

	require.NoError(t, m.RefreshTokens(nil).Create(ctx, "u1", "stale", -time.Minute))

	_, err := s.RefreshToken(ctx, "stale")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestUserService_RefreshToken_PostgresTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewUserService(db, repomanager.NewPostgresRepositoryManager(), testConfig())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u1", time.Now().Add(time.Hour)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens")).
		WithArgs("old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs("u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	pair, err := s.RefreshToken(context.Background(), "old")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Logout(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	pair, err := s.Register(ctx, "Dan", "dan@example.com", "secret1")
	require.NoError(t, err)
	id, err := auth.GetUserIDFromToken(pair.AccessToken, s.jwtSecret)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, id))

	_, err = s.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUserService_FavoritesAndProfile(t *testing.T) {
	s, m := newUserService(t)
	ctx := context.Background()
	uid := register(t, s, "Eve", "eve@example.com")

	r, err := m.Recipes(nil).Create(ctx, &models.Recipe{OwnerID: uid, Title: "Soup", Ingredients: []string{"water"}, AuthorName: "Eve"})
	require.NoError(t, err)

	ids, err := s.ToggleFavorite(ctx, uid, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, ids)

	me, err := s.Me(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, me.Favorites)

	favs, err := s.Favorites(ctx, uid)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Soup", favs[0].Title)

	ids, err = s.ToggleFavorite(ctx, uid, r.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.ToggleFavorite(ctx, uid, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.ToggleFavorite(ctx, uid, "0b0e8c61-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	p, err := s.Profile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Eve", p.Name)
	require.Len(t, p.Recipes, 1)

	_, err = s.Profile(ctx, "bogus")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
