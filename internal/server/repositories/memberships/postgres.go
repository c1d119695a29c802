// Package memberships provides the PostgreSQL-backed repository for
// organization memberships.
package memberships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkov/credvault/internal/common"
	"github.com/avolkov/credvault/internal/dbx"
	"github.com/avolkov/credvault/internal/server/models"
)

// PostgresRepository implements membership lookups over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID, orgID string) (*models.Membership, error) {
	query := `
		SELECT user_id, organization_id, role
		FROM memberships
		WHERE user_id = $1 AND organization_id = $2
	`
	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, userID, orgID).Scan(&m.UserID, &m.OrganizationID, &m.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return m, nil
}
