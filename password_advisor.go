package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordScore ranks a candidate password from blank to very strong.
type PasswordScore int

const (
	PasswordBlank PasswordScore = iota
	PasswordVeryWeak
	PasswordWeak
	PasswordMedium
	PasswordStrong
	PasswordVeryStrong
)

func (s PasswordScore) String() string {
	switch s {
	case PasswordBlank:
		return "blank"
	case PasswordVeryWeak:
		return "very-weak"
	case PasswordWeak:
		return "weak"
	case PasswordMedium:
		return "medium"
	case PasswordStrong:
		return "strong"
	case PasswordVeryStrong:
		return "very-strong"
	default:
		return "unknown"
	}
}

// passwordSymbols is the character set that satisfies the special
// character rule. Comma is a member.
const passwordSymbols = "!,@#$%^&*?_~-£()"

// CheckStrength scores a candidate password. Anything shorter than four
// characters is capped at very weak; beyond that each rule contributes
// one point independently of the others, so the result is the plain sum
// cast to a PasswordScore.
func CheckStrength(password string) PasswordScore {
	if password == "" {
		return PasswordBlank
	}

	if utf8.RuneCountInString(password) < 4 {
		return PasswordVeryWeak
	}

	score := 0

	if utf8.RuneCountInString(password) >= 8 {
		score++
	}
	if utf8.RuneCountInString(password) >= 12 {
		score++
	}
	if strings.ContainsFunc(password, unicode.IsDigit) {
		score++
	}
	if strings.ContainsFunc(password, unicode.IsUpper) &&
		strings.ContainsFunc(password, unicode.IsLower) {
		score++
	}
	if strings.ContainsAny(password, passwordSymbols) {
		score++
	}

	return PasswordScore(score)
}

// ValidatePassword applies the acceptance policy: medium or better
// passes, anything below is rejected with a tier-specific message.
func ValidatePassword(password string) (bool, string) {
	switch CheckStrength(password) {
	case PasswordBlank:
		return false, "No blank passwords"
	case PasswordVeryWeak:
		return false, "This is a very weak password.  Make it longer and use at least one Upper Case chacter and at least one special character"
	case PasswordWeak:
		return false, "This is a weak password.  Make it longer and use at least one Upper Case chacter and at least one special character"
	}

	return true, ""
}
