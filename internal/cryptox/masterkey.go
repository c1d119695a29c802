// Package cryptox implements the vault's cryptography: loading and
// validating the process-wide master key, and authenticated encryption of
// credential payloads with AES-256-GCM.
package cryptox

import (
	"encoding/hex"
	"os"

	"github.com/avolkov/credvault/internal/common"
)

// MasterKeyEnv is the environment variable holding the hex-encoded
// master key. The key is never accepted via flags or config files, since
// argv and files on disk leak more easily than process environment.
const MasterKeyEnv = "VAULT_MASTER_KEY"

const (
	// MasterKeySize is the decoded key length (AES-256).
	MasterKeySize = 32

	masterKeyHexLen = MasterKeySize * 2
)

// MasterKey is the process-wide 32-byte symmetric key. Loaded once at
// startup, immutable for the process lifetime, never persisted or logged.
type MasterKey []byte

// LoadMasterKey reads and validates the master key from the environment.
// Returns common.ErrMasterKeyNotFound when the variable is absent or empty
// and common.ErrInvalidMasterKeyFormat when it is not exactly 64 hex
// characters.
func LoadMasterKey() (MasterKey, error) {
	s := os.Getenv(MasterKeyEnv)
	if s == "" {
		return nil, common.ErrMasterKeyNotFound
	}
	return ParseMasterKey(s)
}

// ParseMasterKey validates and decodes a hex-encoded master key string.
func ParseMasterKey(s string) (MasterKey, error) {
	if len(s) != masterKeyHexLen {
		return nil, common.ErrInvalidMasterKeyFormat
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, common.ErrInvalidMasterKeyFormat
	}
	return MasterKey(b), nil
}

// Wipe overwrites the key bytes with zeros. Call on shutdown, after which
// the key must not be used again.
func (k MasterKey) Wipe() {
	common.WipeByteArray(k)
}

// String keeps the key out of accidental %v/%s formatting and logs.
func (k MasterKey) String() string {
	return "[redacted]"
}
