// Package credentials provides the PostgreSQL-backed repository for
// encrypted credential records.
//
// All lookups filter by organization id in SQL, so a record belonging to
// another organization is indistinguishable from an absent one.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkov/credvault/internal/common"
	"github.com/avolkov/credvault/internal/dbx"
	"github.com/avolkov/credvault/internal/server/models"
)

// metadataColumns deliberately excludes encrypted_data; list views must
// never load the payload.
const metadataColumns = "id, organization_id, name, credential_type, creator_user_id, created_at, updated_at"

// PostgresRepository implements credential storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.CredentialRecord) error {
	query := `
		INSERT INTO credentials (id, organization_id, name, credential_type, encrypted_data, creator_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OrganizationID, rec.Name, rec.Type, rec.EncryptedData, rec.CreatorUserID, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*models.CredentialRecord, error) {
	query := `
		SELECT id, organization_id, name, credential_type, encrypted_data, creator_user_id, created_at, updated_at
		FROM credentials
		WHERE id = $1 AND organization_id = $2
	`
	rec := &models.CredentialRecord{}
	err := r.db.QueryRowContext(ctx, query, id, orgID).Scan(
		&rec.ID, &rec.OrganizationID, &rec.Name, &rec.Type, &rec.EncryptedData,
		&rec.CreatorUserID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return rec, nil
}

func (r *PostgresRepository) GetManyByIDs(ctx context.Context, orgID string, ids []string) ([]*models.CredentialRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, orgID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, organization_id, name, credential_type, encrypted_data, creator_user_id, created_at, updated_at
		FROM credentials
		WHERE organization_id = $1 AND id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.CredentialRecord
	for rows.Next() {
		rec := &models.CredentialRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.OrganizationID, &rec.Name, &rec.Type, &rec.EncryptedData,
			&rec.CreatorUserID, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context, orgID string) ([]*models.CredentialMetadata, error) {
	query := `
		SELECT ` + metadataColumns + `
		FROM credentials
		WHERE organization_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []*models.CredentialMetadata
	for rows.Next() {
		m := &models.CredentialMetadata{}
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.Name, &m.Type,
			&m.CreatorUserID, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.CredentialRecord) error {
	query := `
		UPDATE credentials
		SET name = $1, encrypted_data = $2, updated_at = $3
		WHERE id = $4 AND organization_id = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.Name, rec.EncryptedData, rec.UpdatedAt, rec.ID, rec.OrganizationID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if n == 0 {
		return common.ErrCredentialNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, orgID, id string) error {
	query := `DELETE FROM credentials WHERE id = $1 AND organization_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if n == 0 {
		return common.ErrCredentialNotFound
	}
	return nil
}
