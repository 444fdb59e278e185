package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256 produces deterministic hex digests keyed by a server secret.
//
// It is used for one-time codes: the digest can be matched inside a SQL
// predicate, which a salted hash cannot.
type HMACSHA256 struct {
	secret []byte
}

func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

func (s *HMACSHA256) Verify(hashed, str string) bool {
	return subtle.ConstantTimeCompare([]byte(hashed), s.sum(str)) == 1
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(str))
	return hex.AppendEncode(nil, mac.Sum(nil))
}
