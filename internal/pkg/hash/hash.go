package hash

import (
	"errors"
	"strings"
)

// ErrUnknownAlgorithm is returned by NewPassword for unsupported names.
var ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")

// Hash turns a secret into a storable digest and checks candidates against it.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}

// NewPassword returns the password hasher named by algorithm
// ("bcrypt" or "argon2id").
func NewPassword(algorithm string, bcryptCost int, pepper string) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", "bcrypt":
		return NewBcrypt(bcryptCost, pepper), nil
	case "argon2id":
		return NewArgon2id(pepper), nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}
