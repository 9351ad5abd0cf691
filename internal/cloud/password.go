package cloud

import (
	"errors"
	"fmt"
	"unicode"
)

const (
	DefaultMinPasswordLength = 8
	DefaultMaxPasswordLength = 32
)

var (
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrPasswordTooLong       = errors.New("password is too long")
	ErrPasswordNoUppercase   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLowercase   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit       = errors.New("password must contain at least one digit")
	ErrPasswordNoPunctuation = errors.New("password must contain at least one special character")
)

// CheckPassword enforces the signup and reset password policy. Checks run
// in a fixed order so the first violation decides the message.
func CheckPassword(password string, minLen, maxLen int) error {
	runes := []rune(password)
	if len(runes) < minLen {
		return fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, minLen)
	}
	if len(runes) > maxLen {
		return fmt.Errorf("%w: at most %d characters", ErrPasswordTooLong, maxLen)
	}

	var upper, lower, digit, punct bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punct = true
		}
	}
	if !upper {
		return ErrPasswordNoUppercase
	}
	if !lower {
		return ErrPasswordNoLowercase
	}
	if !digit {
		return ErrPasswordNoDigit
	}
	if !punct {
		return ErrPasswordNoPunctuation
	}
	return nil
}
