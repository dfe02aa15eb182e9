package utils

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[\W_]`)
)

// VerifyPasswordComplexity enforces the account password policy.
func VerifyPasswordComplexity(pw string) error {
	switch {
	case len(pw) < 8:
		return errors.New("password must be at least 8 characters long")
	case !upperRe.MatchString(pw):
		return errors.New("password must include at least one uppercase letter")
	case !lowerRe.MatchString(pw):
		return errors.New("password must include at least one lowercase letter")
	case !numberRe.MatchString(pw):
		return errors.New("password must include at least one number")
	case !symbolRe.MatchString(pw):
		return errors.New("password must include at least one symbol")
	}
	return nil
}

// HashPassword returns the bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether pw matches the stored bcrypt hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
