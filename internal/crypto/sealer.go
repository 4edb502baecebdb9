// Package crypto seals remote API tokens at rest.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Argon2id parameters for stretching the configured secret.
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	keyLen              = 32
)

var kekSalt = []byte("paperless-mirror/token-kek/v1")

// ErrSealedTooShort is returned when a sealed token lacks a nonce.
var ErrSealedTooShort = errors.New("sealed token too short")

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// Sealer encrypts instance tokens with XChaCha20-Poly1305.
// Each instance gets its own key derived from the master key via HKDF,
// and the instance id is bound as additional data.
type Sealer struct {
	kek []byte
}

// NewSealer stretches secret into a master key. An empty secret is rejected.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("empty sealing secret")
	}
	return &Sealer{kek: argon2.IDKey([]byte(secret), kekSalt, argonTime, argonMemory, argonThreads, keyLen)}, nil
}

func (s *Sealer) instanceKey(instanceID []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, s.kek, nil, instanceID)
	key := make([]byte, keyLen)
	_, err := r.Read(key)
	return key, err
}

// Seal encrypts token for instanceID. Output is nonce||ciphertext.
func (s *Sealer) Seal(instanceID []byte, token string) ([]byte, error) {
	key, err := s.instanceKey(instanceID)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce, err := RandBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(token)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, []byte(token), instanceID), nil
}

// Open decrypts a token sealed for instanceID.
func (s *Sealer) Open(instanceID, sealed []byte) (string, error) {
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return "", ErrSealedTooShort
	}
	key, err := s.instanceKey(instanceID)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	nonce := sealed[:chacha20poly1305.NonceSizeX]
	pt, err := aead.Open(nil, nonce, sealed[chacha20poly1305.NonceSizeX:], instanceID)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
