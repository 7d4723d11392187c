package cryptox

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordProtector turns a plaintext password into the blob stored with the
// user and later checks a submitted password against that blob.
type PasswordProtector interface {
	Protect(password string) ([]byte, error)
	// Verify reports whether password matches stored. An error means the
	// stored blob itself is unusable, not that the password is wrong.
	Verify(stored []byte, password string) (bool, error)
}

// VaultProtector stores passwords reversibly encrypted and compares the
// decrypted value with the submitted one.
type VaultProtector struct {
	vault *Vault
}

func NewVaultProtector(v *Vault) *VaultProtector {
	return &VaultProtector{vault: v}
}

func (p *VaultProtector) Protect(password string) ([]byte, error) {
	return p.vault.Encrypt([]byte(password))
}

func (p *VaultProtector) Verify(stored []byte, password string) (bool, error) {
	plain, err := p.vault.Decrypt(stored)
	if err != nil {
		return false, err
	}
	defer common.WipeByteArray(plain)
	return subtle.ConstantTimeCompare(plain, []byte(password)) == 1, nil
}

// BcryptProtector stores a salted one-way bcrypt hash.
type BcryptProtector struct {
	cost int
}

// NewBcryptProtector uses bcrypt.DefaultCost when cost is zero.
func NewBcryptProtector(cost int) *BcryptProtector {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptProtector{cost: cost}
}

func (p *BcryptProtector) Protect(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), p.cost)
}

func (p *BcryptProtector) Verify(stored []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(stored, []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
}
