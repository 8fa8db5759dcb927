package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// pepperPassword mixes the server-side pepper into the password before
// bcrypt, so a leaked database alone is not enough for offline cracking.
func pepperPassword(password, pepper string) []byte {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

func hashPassword(password, pepper string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(pepperPassword(password, pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password, pepper string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), pepperPassword(password, pepper)) == nil
}
