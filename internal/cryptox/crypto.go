package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"

	"github.com/avolkov/credvault/internal/common"
)

// NonceSize is the AES-GCM nonce length. Every encrypted blob starts with
// a fresh random nonce of this size, followed by ciphertext and tag.
const NonceSize = 12

// Cipher performs authenticated encryption and decryption of structured
// values under the master key. It is stateless after construction and safe
// for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher prepares an AES-256-GCM AEAD from the given master key.
// Failures surface as common.ErrEncryption; the message never carries
// key material.
func NewCipher(key MasterKey) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryption, err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt serializes v to JSON and seals it with a fresh random nonce.
// The returned blob layout is nonce || ciphertext+tag. Two calls with the
// same plaintext produce different blobs.
//
// Error messages never carry the plaintext value.
func (c *Cipher) Encrypt(v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, common.ErrSerialization
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	// Seal appends to nonce, yielding nonce || ciphertext+tag in one slice.
	blob := c.aead.Seal(nonce, nonce, plaintext, nil)
	return blob, nil
}

// Decrypt splits the nonce off the blob, verifies and opens the remainder,
// and unmarshals the plaintext JSON into v.
//
// Every failure mode (truncated blob, tag mismatch, wrong key, plaintext
// that is not valid JSON) surfaces as the single common.ErrDecryption so
// callers cannot distinguish tampering from key mismatch.
func (c *Cipher) Decrypt(blob []byte, v any) error {
	if len(blob) < NonceSize {
		return common.ErrDecryption
	}

	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return common.ErrDecryption
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return common.ErrDecryption
	}
	return nil
}
