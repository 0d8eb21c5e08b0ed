package helpers

import "golang.org/x/crypto/bcrypt"

const MinPasswordLength = 6

// HashPassword hashes a plain text password with a per-record random salt.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares a hashed password with the plain text password.
func CheckPassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
