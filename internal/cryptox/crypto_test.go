package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/credvault/internal/common"
)

func testKey(t *testing.T) MasterKey {
	t.Helper()
	return MasterKey(common.GenerateRandByteArray(MasterKeySize))
}

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(testKey(t))
	require.NoError(t, err)
	return c
}

func TestNewCipher_BadKeySize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33} {
		_, err := NewCipher(MasterKey(common.GenerateRandByteArray(size)))
		if size == 16 {
			// AES-128 keys build a cipher; only AES-256 keys reach here
			// in practice because ParseMasterKey enforces the length.
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, common.ErrEncryption, "key size %d", size)
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	tests := []struct {
		name string
		in   map[string]any
	}{
		{name: "api key", in: map[string]any{"api_key": "sk-1"}},
		{name: "nested", in: map[string]any{"user": "u", "extra": map[string]any{"a": "b"}}},
		{name: "empty", in: map[string]any{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := c.Encrypt(tc.in)
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, c.Decrypt(blob, &out))
			assert.Equal(t, tc.in, out)
		})
	}
}

func TestCipher_NonceUniqueness(t *testing.T) {
	c := newTestCipher(t)
	v := map[string]any{"api_key": "sk-1"}

	blob1, err := c.Encrypt(v)
	require.NoError(t, err)
	blob2, err := c.Encrypt(v)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(blob1, blob2), "identical plaintext must encrypt to different blobs")
	assert.False(t, bytes.Equal(blob1[:NonceSize], blob2[:NonceSize]), "nonces must differ")
}

func TestCipher_BitFlipFailsAuthentication(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.Encrypt(map[string]any{"api_key": "sk-1"})
	require.NoError(t, err)

	for i := range blob {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(blob))
			copy(tampered, blob)
			tampered[i] ^= 1 << bit

			var out map[string]any
			err := c.Decrypt(tampered, &out)
			require.ErrorIs(t, err, common.ErrDecryption,
				"flipping byte %d bit %d must fail authentication", i, bit)
		}
	}
}

func TestCipher_ShortBlobRejected(t *testing.T) {
	c := newTestCipher(t)

	for _, n := range []int{0, 1, NonceSize - 1} {
		var out map[string]any
		err := c.Decrypt(make([]byte, n), &out)
		assert.ErrorIs(t, err, common.ErrDecryption, "blob of %d bytes", n)
	}
}

func TestCipher_WrongKeyFails(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	blob, err := c1.Encrypt(map[string]any{"api_key": "sk-1"})
	require.NoError(t, err)

	var out map[string]any
	require.ErrorIs(t, c2.Decrypt(blob, &out), common.ErrDecryption)
}

func TestCipher_UnserializableValue(t *testing.T) {
	c := newTestCipher(t)

	_, err := c.Encrypt(map[string]any{"ch": make(chan int)})
	require.ErrorIs(t, err, common.ErrSerialization)
}

func FuzzCipher_RoundTrip(f *testing.F) {
	key := MasterKey(common.GenerateRandByteArray(MasterKeySize))
	c, err := NewCipher(key)
	if err != nil {
		f.Fatal(err)
	}

	f.Add("sk-1", "openai")
	f.Fuzz(func(t *testing.T, secret, kind string) {
		in := map[string]any{"secret": secret, "kind": kind}

		blob, err := c.Encrypt(in)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		var out map[string]any
		if err := c.Decrypt(blob, &out); err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if out["secret"] != secret || out["kind"] != kind {
			t.Fatalf("roundtrip mismatch")
		}
	})
}
