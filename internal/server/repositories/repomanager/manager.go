// Package repomanager vends repository implementations for a storage backend
// and owns the backend's schema and transaction handling.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recipeshare/internal/dbx"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	// WithTx runs fn inside a transaction; repositories built from tx take part in it.
	WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Recipes(db dbx.DBTX) recipes.Repository
}
