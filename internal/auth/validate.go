package auth

import "regexp"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{4,16}$`)

// passwordSpecials is the punctuation set a password must draw at least one
// character from. Characters outside letters, digits and this set are
// rejected outright.
const passwordSpecials = `!@#$%^&*()_+"';[]`

func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ValidPassword enforces the password policy: at least 8 characters, one
// lowercase, one uppercase, one digit and one special character.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
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
		case containsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
