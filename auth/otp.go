package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// PasscodeLength is the number of decimal digits in a one-time passcode.
const PasscodeLength = 6

// GeneratePasscode draws a 6-digit decimal passcode uniformly at random
// from crypto/rand. Leading zeros are preserved.
func GeneratePasscode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashPasscode produces the one-way bcrypt hash under which a passcode
// is stored. The cleartext passcode is never persisted or logged in the
// durable path.
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasscode reports whether a candidate passcode matches a stored
// hash. bcrypt's comparison is constant-time over the derived key.
func ComparePasscode(candidate, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
