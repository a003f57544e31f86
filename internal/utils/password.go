package utils

import "golang.org/x/crypto/bcrypt"

// NormalizeCost clamps cost into the range bcrypt accepts, using the
// library default for zero.
func NormalizeCost(cost int) int {
	switch {
	case cost == 0:
		return bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}

// HashPassword returns a bcrypt hash of plain.  Passwords longer than 72
// bytes are rejected by bcrypt.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), NormalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares hash and plain in constant time.  Malformed
// hashes never match.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
