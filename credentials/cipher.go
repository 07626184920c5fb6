package credentials

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"github.com/jrsteele09/go-fantasy-proxy/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher encrypts and decrypts credential sets with a process-wide symmetric
// key. Decryption failures always surface as ErrInvalidSession: a blob that
// cannot be opened means the caller must re-authenticate, never a transient
// fault.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Wrapf(errors.ErrSecurity, "encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSecurity, "cipher init: %v", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt serializes and seals a credential set into an opaque base64 blob.
func (c *Cipher) Encrypt(set Set) (string, error) {
	plaintext, err := json.Marshal(set)
	if err != nil {
		return "", errors.Wrapf(errors.ErrSecurity, "serializing credentials: %v", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrapf(errors.ErrSecurity, "nonce: %v", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an encrypted blob back into a credential set. Any malformed,
// truncated, or tampered input fails with ErrInvalidSession.
func (c *Cipher) Decrypt(blob string) (Set, error) {
	raw, err := base64.URLEncoding.DecodeString(blob)
	if err != nil {
		return Set{}, errors.Wrapf(errors.ErrInvalidSession, "decoding credential blob")
	}

	if len(raw) < c.aead.NonceSize() {
		return Set{}, errors.Wrapf(errors.ErrInvalidSession, "credential blob too short")
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Set{}, errors.Wrapf(errors.ErrInvalidSession, "opening credential blob")
	}

	var set Set
	if err := json.Unmarshal(plaintext, &set); err != nil {
		return Set{}, errors.Wrapf(errors.ErrInvalidSession, "deserializing credentials")
	}
	return set, nil
}
