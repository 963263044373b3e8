package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DigestCost is the bcrypt cost used for password digests in logs
const DigestCost = bcrypt.DefaultCost

// PasswordDigest returns a bcrypt hash of the password, so diagnostics
// can record a submission without its plaintext secret.
func PasswordDigest(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DigestCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the digest
func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
