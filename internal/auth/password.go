// Package auth issues and verifies credentials: bcrypt password hashes,
// signed bearer tokens, and the verification strategies built on them.
package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with a random salt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
// The comparison runs in constant time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when no stored hash exists, so unknown
// accounts cost the same as wrong passwords.
var dummyHash = sync.OnceValue(func() string {
	hashed, err := HashPassword("forumhub-timing-equalizer")
	if err != nil {
		panic(err)
	}
	return hashed
})
