// Package cryptox holds the credential vault and the password protectors
// built on top of it.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrCrypto is returned for ciphertext that cannot be opened: wrong length,
// wrong key, or tampered bytes.
var ErrCrypto = errors.New("crypto error")

// vaultSalt is fixed: the vault key is stretched from a server secret, not
// from a user password, so a per-deployment salt adds nothing.
var vaultSalt = []byte("microblog/credential-vault/v1")

// DeriveMasterKey stretches secret into a 32-byte AES-256 key with argon2id.
func DeriveMasterKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// Vault is a symmetric encrypt/decrypt transform for stored credentials.
//
// Ciphertext layout is nonce || AES-GCM(sealed plaintext). Every call to
// Encrypt uses a fresh random nonce, so equal plaintexts produce different
// ciphertexts; Decrypt always recovers the original.
type Vault struct {
	aead cipher.AEAD
}

// NewVault derives the vault key from secret. An empty secret is rejected.
func NewVault(secret string) (*Vault, error) {
	if secret == "" {
		return nil, errors.New("vault secret is empty")
	}
	key := DeriveMasterKey([]byte(secret), vaultSalt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext under the vault key.
func (v *Vault) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := common.GenerateRandByteArray(v.aead.NonceSize())

	out := make([]byte, 0, len(nonce)+len(plaintext)+v.aead.Overhead())
	out = append(out, nonce...)
	return v.aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt. Any malformed input yields
// an error matching ErrCrypto.
func (v *Vault) Decrypt(ciphertext []byte) ([]byte, error) {
	ns := v.aead.NonceSize()
	if len(ciphertext) < ns+v.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrCrypto)
	}
	plaintext, err := v.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return plaintext, nil
}
