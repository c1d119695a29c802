package credentials

import (
	"context"

	"github.com/avolkov/credvault/internal/server/models"
)

// Repository persists opaque encrypted credential records. Implementations
// never interpret EncryptedData.
type Repository interface {
	Create(ctx context.Context, rec *models.CredentialRecord) error
	GetByID(ctx context.Context, orgID, id string) (*models.CredentialRecord, error)
	GetManyByIDs(ctx context.Context, orgID string, ids []string) ([]*models.CredentialRecord, error)
	List(ctx context.Context, orgID string) ([]*models.CredentialMetadata, error)
	Update(ctx context.Context, rec *models.CredentialRecord) error
	Delete(ctx context.Context, orgID, id string) error
}
