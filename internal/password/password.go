// Package password holds the password strength policy and the bcrypt hasher.
package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for every stored hash.
const Cost = 10

const (
	MinLength = 8
	// MaxBytes is the longest input bcrypt will hash.
	MaxBytes = 72
)

const (
	MsgTooShort  = "Password must be at least 8 characters"
	MsgNoLower   = "Password must contain a lowercase letter"
	MsgNoUpper   = "Password must contain an uppercase letter"
	MsgNoDigit   = "Password must contain a digit"
	MsgNoSpecial = "Password must contain a special character"
	MsgTooLong   = "Password must be at most 72 bytes"
)

// Validate returns the message of every rule the password violates, or nil.
func Validate(password string) []string {
	var violations []string

	if len([]rune(password)) < MinLength {
		violations = append(violations, MsgTooShort)
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}

	if !lower {
		violations = append(violations, MsgNoLower)
	}
	if !upper {
		violations = append(violations, MsgNoUpper)
	}
	if !digit {
		violations = append(violations, MsgNoDigit)
	}
	if !special {
		violations = append(violations, MsgNoSpecial)
	}
	if len(password) > MaxBytes {
		violations = append(violations, MsgTooLong)
	}

	return violations
}

// Hash returns a salted bcrypt digest of password.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches digest.
func Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

