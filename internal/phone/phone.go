// Package phone validates the phone numbers used as login identifiers.
package phone

import "errors"

// Length is the exact number of digits a phone number must have.
const Length = 10

// ErrInvalid is returned for anything that is not exactly Length ASCII digits.
var ErrInvalid = errors.New("phone must be a 10-digit number")

// Validate reports whether s is a well-formed phone number.
func Validate(s string) error {
	if len(s) != Length {
		return ErrInvalid
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrInvalid
		}
	}
	return nil
}
