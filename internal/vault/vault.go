// Package vault holds the client-side encryption used for cloud saves and
// the on-disk refresh token: AES-GCM-256 under a user-owned key.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const KeySize = 32

var (
	ErrInvalidKey     = errors.New("invalid encryption key")
	ErrDecryptFailed  = errors.New("decryption failed")
	ErrNoKeyOnDisk    = errors.New("no encryption key on disk")
	ErrMalformedToken = errors.New("malformed refresh token file")
	ErrNoTokenOnDisk  = errors.New("no refresh token on disk")
)

// encoding is URL-safe base64 without padding, the wire format of stored
// nonces and ciphertexts.
var encoding = base64.RawURLEncoding

// GenerateKey returns a fresh random 256-bit key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under the key with a freshly generated nonce.
// Both return values are base64 encoded.
func Encrypt(plaintext, key []byte) (ciphertext, nonce string, err error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", "", err
	}
	rawNonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(rawNonce); err != nil {
		return "", "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nil, rawNonce, plaintext, nil)
	return encoding.EncodeToString(sealed), encoding.EncodeToString(rawNonce), nil
}

// Decrypt opens a base64 ciphertext with its base64 nonce.
func Decrypt(ciphertext, nonce string, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	rawCipher, err := encoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ciphertext encoding", ErrDecryptFailed)
	}
	rawNonce, err := encoding.DecodeString(nonce)
	if err != nil || len(rawNonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce", ErrDecryptFailed)
	}
	plain, err := aead.Open(nil, rawNonce, rawCipher, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return cipher.NewGCM(block)
}

// SaveKey writes the key base64 encoded to its well-known file.
func SaveKey(path string, key []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}
	return os.WriteFile(path, []byte(encoding.EncodeToString(key)), 0o600)
}

// LoadKey reads the key back from disk.
func LoadKey(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoKeyOnDisk
		}
		return nil, fmt.Errorf("read key: %w", err)
	}
	return DecodeKey(strings.TrimSpace(string(content)))
}

// DecodeKey parses a base64 key supplied out-of-band.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := encoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// SaveRefreshToken encrypts the refresh token under the key and writes one
// line of the form nonce|ciphertext|base64(email).
func SaveRefreshToken(path, token, email string, key []byte) error {
	ciphertext, nonce, err := Encrypt([]byte(token), key)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}
	line := strings.Join([]string{
		nonce,
		ciphertext,
		encoding.EncodeToString([]byte(email)),
	}, "|")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(path, []byte(line), 0o600)
}

// LoadRefreshToken reads and decrypts the stored refresh token.
func LoadRefreshToken(path string, key []byte) (token, email string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", ErrNoTokenOnDisk
		}
		return "", "", fmt.Errorf("read refresh token: %w", err)
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", ErrMalformedToken
	}
	plain, err := Decrypt(parts[1], parts[0], key)
	if err != nil {
		return "", "", err
	}
	rawEmail, err := encoding.DecodeString(parts[2])
	if err != nil {
		return "", "", ErrMalformedToken
	}
	return string(plain), string(rawEmail), nil
}

// DeleteRefreshToken removes the token file, tolerating its absence.
func DeleteRefreshToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
