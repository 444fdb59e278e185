package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const CodeLength = 6

var (
	codeSpace   = big.NewInt(1_000_000)
	codePattern = regexp.MustCompile(`^\d{6}$`)
)

// GenerateCode returns six decimal digits drawn uniformly from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func isCodeFormat(code string) bool {
	return codePattern.MatchString(code)
}
