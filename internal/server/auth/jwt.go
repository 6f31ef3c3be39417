// Package auth issues and verifies the signed identity tokens the service
// hands out on registration and sign-in. Tokens are stateless HS256 JWTs
// whose claims are the public user view; the issuer keeps no record of what
// it has signed.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/microauth/internal/common"
	"github.com/dmitrijs2005/microauth/internal/server/storage"
)

// Issuer signs token payloads with a process-wide HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer signing with secret. A ttl of 0 means issued
// tokens carry no expiry; a nonzero ttl adds an exp claim, which Verify
// then enforces.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs payload and returns the compact token string.
func (i *Issuer) Issue(payload storage.Record) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	if i.ttl != 0 {
		claims["exp"] = jwt.NewNumericDate(time.Now().Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", common.NewCrypto("error signing token: " + err.Error())
	}
	return signed, nil
}

// Verify checks the signature of tokenString and returns its payload.
// Malformed tokens, wrong signatures, and (when a ttl is configured)
// expired tokens fail with an error of kind common.KindInvalidToken.
func (i *Issuer) Verify(tokenString string) (storage.Record, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil || !token.Valid {
		return nil, common.NewInvalidToken("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, common.NewInvalidToken("invalid token")
	}

	payload := make(storage.Record, len(claims))
	for k, v := range claims {
		payload[k] = v
	}
	return payload, nil
}
