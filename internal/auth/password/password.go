// Package password wraps bcrypt hashing behind the two operations the rest
// of the code is allowed to perform.
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a bcrypt digest from a raw password.
func Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether raw matches the stored digest. bcrypt's comparison
// is constant-time with respect to the password bytes.
func Verify(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}
