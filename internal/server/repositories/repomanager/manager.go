package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/credvault/internal/dbx"
	"github.com/avolkov/credvault/internal/server/repositories/credentials"
	"github.com/avolkov/credvault/internal/server/repositories/memberships"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Memberships(db dbx.DBTX) memberships.Repository
}
