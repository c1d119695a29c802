// Package common defines shared constants and sentinel errors used across
// the vault layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Startup/configuration errors. The process must not serve traffic
	// when either of these occurs.
	ErrMasterKeyNotFound      = errors.New("master key not found")
	ErrInvalidMasterKeyFormat = errors.New("invalid master key format")

	// Authorization errors, always evaluated before any cryptographic
	// or storage work.
	ErrUserNotInOrganization = errors.New("user not in organization")
	ErrPermissionDenied      = errors.New("permission denied")

	// ErrCredentialNotFound covers both truly absent records and records
	// belonging to another organization.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrInvalidName rejects an empty credential name, on create and on
	// rename alike.
	ErrInvalidName = errors.New("invalid credential name")

	// Cryptographic/data errors. Non-retryable; messages never carry
	// plaintext or key material.
	ErrEncryption    = errors.New("encryption failed")
	ErrDecryption    = errors.New("decryption failed")
	ErrSerialization = errors.New("serialization failed")

	// ErrStorage wraps persistence failures. The only kind a caller
	// might reasonably retry.
	ErrStorage = errors.New("storage error")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
