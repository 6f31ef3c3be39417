// Package password implements the one-way credential hashing discipline:
// salted bcrypt with the salt and work factor embedded in the encoding, and
// constant-time comparison.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/microauth/internal/common"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// Hasher derives and verifies salted password hashes at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost; a cost of 0 selects
// DefaultCost. Tests may pass bcrypt.MinCost to keep hashing cheap.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted hash of plaintext. A fresh random salt is generated
// per call and embedded, along with the cost, in the returned encoding.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", common.NewCrypto("error hashing password: " + err.Error())
	}
	return string(b), nil
}

// Compare re-derives the hash of plaintext using the salt and cost embedded
// in encoded and checks equality in constant time. A mismatch is (false,
// nil); a malformed encoding or crypto fault is an error of kind
// common.KindCrypto.
func (h *Hasher) Compare(plaintext, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, common.NewCrypto("error comparing password: " + err.Error())
	}
}
