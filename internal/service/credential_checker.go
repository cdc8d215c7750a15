package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// CredentialChecker decides whether a secret unlocks the creation dialog.
type CredentialChecker interface {
	Check(ctx context.Context, secret string) (bool, error)
}

// SharedSecretChecker compares against a configured plain secret.
type SharedSecretChecker struct {
	secret []byte
}

// NewSharedSecretChecker constructs the checker.
func NewSharedSecretChecker(secret string) *SharedSecretChecker {
	return &SharedSecretChecker{secret: []byte(secret)}
}

// Check performs an exact, constant-time comparison.
func (c *SharedSecretChecker) Check(ctx context.Context, secret string) (bool, error) {
	if len(c.secret) == 0 {
		return false, errors.New("creator secret not configured")
	}
	return subtle.ConstantTimeCompare(c.secret, []byte(secret)) == 1, nil
}

// BcryptChecker compares against a bcrypt hash of the secret.
type BcryptChecker struct {
	hash []byte
}

// NewBcryptChecker constructs the checker from an encoded bcrypt hash.
func NewBcryptChecker(hash string) (*BcryptChecker, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &BcryptChecker{hash: []byte(hash)}, nil
}

// Check reports whether secret matches the hash.
func (c *BcryptChecker) Check(ctx context.Context, secret string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(c.hash, []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// NewCredentialChecker prefers the hashed secret when one is configured.
func NewCredentialChecker(secret, secretHash string) (CredentialChecker, error) {
	if secretHash != "" {
		return NewBcryptChecker(secretHash)
	}
	return NewSharedSecretChecker(secret), nil
}
