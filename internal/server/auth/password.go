package auth

import (
	"errors"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored hashes.
var PasswordCost = bcrypt.DefaultCost

// dummyHash is compared against when no stored hash exists so that a lookup
// miss costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrPasswordTooLong
		}
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. An empty hash is
// treated as a non-matching account but still pays for a comparison.
func CheckPassword(hash string, password []byte) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, password)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}
