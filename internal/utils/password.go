package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is outside bcrypt's range.
const DefaultBcryptCost = 10

// dummyHash is compared against when the account does not exist, so an
// unknown email costs the same bcrypt work as a wrong password.
var (
	dummyOnce sync.Once
	dummyHash []byte
)

// ErrPasswordTooLong mirrors bcrypt's 72-byte input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash and a plain password.  The
// comparison inside bcrypt is constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck performs a throwaway comparison at the given cost for
// callers that found no stored hash.
func BurnPasswordCheck(plain string, cost int) {
	dummyOnce.Do(func() {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = DefaultBcryptCost
		}
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
