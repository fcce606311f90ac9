// Package repomanager constructs repositories over a shared database handle
// and owns schema migration on startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/files"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/links"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/shares"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so services can
// run the same repository code against the pool or inside a transaction.
type RepositoryManager interface {
	Files(db dbx.DBTX) files.Repository
	Shares(db dbx.DBTX) shares.Repository
	Links(db dbx.DBTX) links.Repository
	Users(db dbx.DBTX) users.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
