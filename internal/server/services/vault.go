// Package services contains the vault's application services. VaultService
// is the sole boundary the rest of the platform depends on: five operations
// over encrypted credential records, each gated by the access guard before
// any cryptographic or storage work.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/credvault/internal/common"
	"github.com/avolkov/credvault/internal/cryptox"
	"github.com/avolkov/credvault/internal/dbx"
	"github.com/avolkov/credvault/internal/server/access"
	"github.com/avolkov/credvault/internal/server/models"
	"github.com/avolkov/credvault/internal/server/repositories/repomanager"
)

// timeNow is a seam for tests.
var timeNow = time.Now

// VaultService composes the access guard (authorization) and the cipher
// (confidentiality/integrity) around the credential repositories.
type VaultService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	guard  access.Authorizer
	cipher *cryptox.Cipher
}

func NewVaultService(db *sql.DB, rm repomanager.RepositoryManager, guard access.Authorizer, cipher *cryptox.Cipher) *VaultService {
	return &VaultService{db: db, rm: rm, guard: guard, cipher: cipher}
}

// List returns credential metadata for the organization. Requires the view
// capability. The encrypted payload is never loaded and the cipher is never
// invoked.
func (s *VaultService) List(ctx context.Context, orgID, actorID string) ([]*models.CredentialMetadata, error) {
	if err := s.guard.Authorize(ctx, actorID, orgID, access.CapabilityView); err != nil {
		return nil, err
	}
	return s.rm.Credentials(s.db).List(ctx, orgID)
}

// Create encrypts the plaintext data and persists a new record with a fresh
// random id. Requires the create capability. Encryption completes fully in
// memory before any write is attempted; a persistence failure after
// successful encryption fails the operation wholesale.
func (s *VaultService) Create(ctx context.Context, orgID, actorID, name, credType string, data map[string]any) (string, error) {
	if err := s.guard.Authorize(ctx, actorID, orgID, access.CapabilityCreate); err != nil {
		return "", err
	}
	if name == "" {
		return "", common.ErrInvalidName
	}

	blob, err := s.cipher.Encrypt(data)
	if err != nil {
		return "", err
	}

	rec := &models.CredentialRecord{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		Type:           credType,
		EncryptedData:  blob,
		CreatorUserID:  actorID,
		CreatedAt:      timeNow().UTC(),
	}

	if err := s.rm.Credentials(s.db).Create(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Get fetches and decrypts a single credential. Requires the view
// capability. A record belonging to another organization surfaces as
// common.ErrCredentialNotFound.
func (s *VaultService) Get(ctx context.Context, orgID, actorID, id string) (*models.Credential, error) {
	if err := s.guard.Authorize(ctx, actorID, orgID, access.CapabilityView); err != nil {
		return nil, err
	}

	rec, err := s.rm.Credentials(s.db).GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return s.decryptRecord(rec)
}

// GetMany fetches and decrypts a batch of credentials. Authorization is
// evaluated once for the whole batch. Any missing id and any single
// decryption failure fails the entire batch, since the typical caller
// consumes it atomically.
func (s *VaultService) GetMany(ctx context.Context, orgID, actorID string, ids []string) ([]*models.Credential, error) {
	if err := s.guard.Authorize(ctx, actorID, orgID, access.CapabilityView); err != nil {
		return nil, err
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	records, err := s.rm.Credentials(s.db).GetManyByIDs(ctx, orgID, unique)
	if err != nil {
		return nil, err
	}
	if len(records) != len(unique) {
		return nil, common.ErrCredentialNotFound
	}

	byID := make(map[string]*models.CredentialRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	result := make([]*models.Credential, 0, len(unique))
	for _, id := range unique {
		cred, err := s.decryptRecord(byID[id])
		if err != nil {
			return nil, err
		}
		result = append(result, cred)
	}
	return result, nil
}

// Update re-encrypts the credential with a fresh nonce and refreshes
// updated_at. Requires the edit capability. A nil newName preserves the
// stored name, an empty one is rejected; re-encryption is never skipped,
// even for unchanged data. The read-modify-write runs in one transaction.
func (s *VaultService) Update(ctx context.Context, orgID, actorID, id string, newName *string, data map[string]any) error {
	if err := s.guard.Authorize(ctx, actorID, orgID, access.CapabilityEdit); err != nil {
		return err
	}
	if newName != nil && *newName == "" {
		return common.ErrInvalidName
	}

	blob, err := s.cipher.Encrypt(data)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		creds := s.rm.Credentials(tx)

		rec, err := creds.GetByID(ctx, orgID, id)
		if err != nil {
			return err
		}

		if newName != nil {
			rec.Name = *newName
		}
		rec.EncryptedData = blob
		now := timeNow().UTC()
		rec.UpdatedAt = &now

		return creds.Update(ctx, rec)
	})
}

// Delete removes the credential permanently. Requires the delete
// capability. Not reversible.
func (s *VaultService) Delete(ctx context.Context, orgID, actorID, id string) error {
	if err := s.guard.Authorize(ctx, actorID, orgID, access.CapabilityDelete); err != nil {
		return err
	}
	return s.rm.Credentials(s.db).Delete(ctx, orgID, id)
}

func (s *VaultService) decryptRecord(rec *models.CredentialRecord) (*models.Credential, error) {
	var data map[string]any
	if err := s.cipher.Decrypt(rec.EncryptedData, &data); err != nil {
		// Kind only; the error must not hint at key mismatch vs tampering.
		return nil, fmt.Errorf("credential %s: %w", rec.ID, common.ErrDecryption)
	}
	return &models.Credential{
		CredentialMetadata: *rec.Metadata(),
		Data:               data,
	}, nil
}
