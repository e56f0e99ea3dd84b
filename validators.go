package auth

import (
	"net/mail"
	"unicode/utf8"
)

// ValidateEmail checks email syntax. The rejection message for a
// non-blank address carries the parser's diagnostic verbatim.
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "email can't be blank"
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return false, err.Error()
	}

	return true, ""
}

// ValidateUsername applies the username policy.
// Historical quirk: the message promises three characters but the check
// has always required four. Clients match on the text, so both stay.
func ValidateUsername(username string) (bool, string) {
	if username == "" || utf8.RuneCountInString(username) < 4 {
		return false, "usernames must be at least 3 characters long"
	}

	return true, ""
}
