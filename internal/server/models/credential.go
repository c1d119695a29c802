package models

import "time"

// CredentialRecord is the persisted form of a credential. EncryptedData is
// an opaque blob laid out as nonce || ciphertext+tag; only the cipher layer
// looks inside it.
type CredentialRecord struct {
	ID             string
	OrganizationID string
	Name           string
	Type           string
	EncryptedData  []byte
	CreatorUserID  string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// CredentialMetadata is the enumeration projection of a record. It never
// carries the encrypted payload.
type CredentialMetadata struct {
	ID             string
	OrganizationID string
	Name           string
	Type           string
	CreatorUserID  string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Metadata returns the metadata projection of the record.
func (r *CredentialRecord) Metadata() *CredentialMetadata {
	return &CredentialMetadata{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Type:           r.Type,
		CreatorUserID:  r.CreatorUserID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Credential is the decrypted projection returned from get operations
// after authorization succeeds.
type Credential struct {
	CredentialMetadata
	Data map[string]any
}
