package auth

import (
	"crypto/rand"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for admin passwords.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns a freshly salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. The comparison is constant-time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyHash     string
	dummyHashOnce sync.Once
)

// DummyHash returns a bcrypt hash at PasswordCost of a random secret. Comparing
// against it costs the same as a real check and never matches.
func DummyHash() string {
	dummyHashOnce.Do(func() {
		hash, err := HashPassword(rand.Text())
		if err != nil {
			panic(fmt.Sprintf("auth: dummy hash: %v", err))
		}
		dummyHash = hash
	})
	return dummyHash
}
